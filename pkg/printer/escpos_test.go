package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(doc *Document) []string {
	// drop the init sequence, keep the printable lines
	body := bytes.TrimPrefix(doc.Bytes(), []byte{esc, '@'})
	parts := bytes.Split(body, []byte{lf})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, string(p))
	}
	return out
}

func TestDocument_PairFillsWidth(t *testing.T) {
	doc := NewDocument(20).Pair("Subtotal:", "12.50")

	got := lines(doc)[0]
	assert.Len(t, got, 20)
	assert.Equal(t, "Subtotal:      12.50", got)
}

func TestDocument_PairShortensLongLabel(t *testing.T) {
	doc := NewDocument(16).Pair("2x Extra large cappuccino", "9.00")

	got := lines(doc)[0]
	assert.Equal(t, 16, len([]rune(got)))
	assert.Contains(t, got, "9.00")
	assert.Contains(t, got, "2x Extra l.")
}

func TestDocument_LineCountsRunes(t *testing.T) {
	doc := NewDocument(6).Line("Café crème")

	assert.Equal(t, "Café .", lines(doc)[0])
}

func TestDocument_RuleAndDefaults(t *testing.T) {
	doc := NewDocument(0)
	assert.Equal(t, Width58mm, doc.Width())

	doc.Rule('=')
	assert.Equal(t, Width58mm, len(lines(doc)[0]))
}

func TestDocument_ControlSequences(t *testing.T) {
	data := NewDocument(32).Align(AlignCenter).Bold(true).Size(SizeDouble).Cut().Bytes()

	assert.True(t, bytes.HasPrefix(data, []byte{esc, '@'}))
	assert.True(t, bytes.Contains(data, []byte{esc, 'a', 1}))
	assert.True(t, bytes.Contains(data, []byte{esc, 'E', 1}))
	assert.True(t, bytes.Contains(data, []byte{gs, '!', 0x11}))
	assert.True(t, bytes.HasSuffix(data, []byte{gs, 'V', 0x01}))
}

func TestNew(t *testing.T) {
	p, err := New(Config{Type: ""})
	require.NoError(t, err)
	assert.Equal(t, TypeNone, p.Type())
	assert.ErrorIs(t, p.Print(context.Background(), []byte("x")), ErrNotConfigured)

	_, err = New(Config{Type: TypeUSB})
	assert.Error(t, err)

	_, err = New(Config{Type: TypeNetwork})
	assert.Error(t, err)

	_, err = New(Config{Type: "bluetooth"})
	assert.Error(t, err)

	p, err = New(Config{Type: TypeNetwork, Address: "127.0.0.1:9100"})
	require.NoError(t, err)
	assert.Equal(t, TypeNetwork, p.Type())
}
