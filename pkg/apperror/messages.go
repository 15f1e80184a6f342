package apperror

import "strings"

// Localize maps known backend and console messages to user-facing strings in
// the given locale. Unknown messages are returned unchanged.
func Localize(locale, message string) string {
	if !strings.HasPrefix(strings.ToLower(locale), "es") {
		return localizeEN(message)
	}
	return localizeES(message)
}

func localizeEN(message string) string {
	switch normalizeMessage(message) {
	case "insufficient stock", "not enough stock":
		return "There is not enough stock for this product"
	case "product not found":
		return "Product not found"
	case "order not found":
		return "Order not found"
	case "order already completed", "order is already completed":
		return "This order has already been completed"
	case "order already cancelled", "order is already cancelled":
		return "This order has already been cancelled"
	case "no active shift", "active shift not found":
		return "Open a shift before selling"
	case "shift already open", "user already has an active shift":
		return "You already have an open shift"
	case "table is occupied", "table not available":
		return "This table is already occupied"
	case "invalid credentials":
		return "Invalid email or password"
	}
	return message
}

func localizeES(message string) string {
	switch normalizeMessage(message) {
	case "insufficient stock", "not enough stock":
		return "No hay stock suficiente para este producto"
	case "product not found":
		return "Producto no encontrado"
	case "order not found":
		return "Orden no encontrada"
	case "order already completed", "order is already completed":
		return "Esta orden ya fue completada"
	case "order already cancelled", "order is already cancelled":
		return "Esta orden ya fue cancelada"
	case "no active shift", "active shift not found":
		return "Abra un turno antes de vender"
	case "shift already open", "user already has an active shift":
		return "Ya tiene un turno abierto"
	case "table is occupied", "table not available":
		return "La mesa ya está ocupada"
	case "invalid credentials", "invalid email or password":
		return "Correo o contraseña inválidos"
	case "cart is empty":
		return "El carrito está vacío"
	case "select a payment method":
		return "Seleccione un método de pago"
	case "no active order for this sale":
		return "No hay una orden activa para esta venta"
	case "amount tendered is less than the total":
		return "El monto recibido es menor al total"
	case "order belongs to another cashier":
		return "No tiene acceso a esta orden"
	case "user has no business or branch association":
		return "El usuario no tiene un negocio o sucursal asociada"
	case "order can no longer be modified":
		return "La orden ya no puede modificarse"
	case "session expired, please sign in again":
		return "La sesión expiró, inicie sesión nuevamente"
	}
	return message
}

func normalizeMessage(message string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(message)), ".!")
}
