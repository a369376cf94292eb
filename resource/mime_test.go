package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		kind     Kind
	}{
		{"resources/aura/auraIdeLogo.png", "image/png", Binary},
		{"resources/aura/resetCSS.css", "text/css", Stylesheet},
		{"javascript/aura_dev.js", "text/javascript", Script},
		{"resources/moment/moment.min.js", "text/javascript", Script},
		{"resources/nosuffix", "text/javascript", Script},
		{"resources/aura/LOGO.PNG", "image/png", Binary},
		{"resources/aura/icons.svg", "image/svg+xml", Text},
		{"resources/aura/blob.unknownext", "application/octet-stream", Binary},
	}
	for _, tt := range tests {
		mimeType, kind := TypeOf(tt.name)
		assert.Equal(t, tt.mimeType, mimeType, tt.name)
		assert.Equal(t, tt.kind, kind, tt.name)
	}
}

func TestDescribeKeepsStoreMimeType(t *testing.T) {
	d := Describe(Descriptor{Name: "resources/aura/data.bin", MimeType: "application/x-custom"})
	assert.Equal(t, "application/x-custom", d.MimeType)
	assert.Equal(t, Binary, d.Kind)

	d = Describe(Descriptor{Name: "resources/aura/resetCSS.css"})
	assert.Equal(t, "text/css", d.MimeType)
	assert.True(t, d.Kind.IsText())
	assert.False(t, Binary.IsText())
}
