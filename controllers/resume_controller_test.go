package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"ascii", "Jane_Doe_Resume.pdf", `attachment; filename="Jane_Doe_Resume.pdf"`},
		{"latin accents", "Zoë_Müller_Resume.pdf",
			`attachment; filename="Zo__M_ller_Resume.pdf"; filename*=UTF-8''Zo%C3%AB_M%C3%BCller_Resume.pdf`},
		{"cjk and greek", "李_小龙_Ωmega_Resume.pdf",
			`attachment; filename="______mega_Resume.pdf"; filename*=UTF-8''%E6%9D%8E_%E5%B0%8F%E9%BE%99_%CE%A9mega_Resume.pdf`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contentDisposition(tt.filename))
		})
	}
}
