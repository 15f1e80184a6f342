package request

// UpdateSettingsRequest updates business settings; absent fields are kept
type UpdateSettingsRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=255"`
	TaxID         *string `json:"taxId"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Currency      *string `json:"currency" binding:"omitempty,len=3"`
	ReceiptFooter *string `json:"receiptFooter"`
}
