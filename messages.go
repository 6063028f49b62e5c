package docx2html

import (
	"errors"
	"strings"
)

// User-facing messages shown by the web UI and the CLI.
const (
	MsgInvalidFileType  = "Lütfen sadece .docx dosyası yükleyin"
	MsgConversionPrefix = "Dosya okuma hatası: "
	MsgFileTooLarge     = "Dosya çok büyük"
	MsgNoFile           = "Lütfen bir dosya seçin"
)

// UserMessage turns a Convert error into the message shown to the user.
// Invalid file types get a fixed message; conversion failures get the
// conversion prefix followed by the underlying detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidFileType) {
		return MsgInvalidFileType
	}
	detail := err.Error()
	if errors.Is(err, ErrConversion) {
		detail = strings.TrimPrefix(detail, ErrConversion.Error()+": ")
	}
	return MsgConversionPrefix + detail
}
