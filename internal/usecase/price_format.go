package usecase

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 金額はトマンの整数。表示は桁区切り＋通貨名。
type PriceFormatter struct {
	printer *message.Printer
	unit    string
}

func NewPriceFormatter(tag language.Tag) *PriceFormatter {
	unit := "Toman"
	if base, _ := tag.Base(); base.String() == "fa" {
		unit = "تومان"
	}
	return &PriceFormatter{printer: message.NewPrinter(tag), unit: unit}
}

// 既定はペルシア語
func NewPersianPriceFormatter() *PriceFormatter {
	return NewPriceFormatter(language.Persian)
}

func (f *PriceFormatter) Number(amount int64) string {
	return f.printer.Sprintf("%d", amount)
}

func (f *PriceFormatter) Format(amount int64) string {
	return f.Number(amount) + " " + f.unit
}
