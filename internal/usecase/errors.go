package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// 画面に出すペルシア語のメッセージ
const (
	MsgSignInRequired     = "لطفا ابتدا وارد حساب کاربری خود شوید"
	MsgAddToCartFailed    = "خطا در افزودن به سبد خرید"
	MsgProfileIncomplete  = "لطفا ابتدا اطلاعات تماس و آدرس خود را در پروفایل تکمیل کنید"
	MsgInsufficientStock  = "موجودی کافی نیست"
	MsgProductNotFound    = "محصول یافت نشد"
	MsgProductUnavailable = "این محصول در حال حاضر قابل فروش نیست"
	MsgNotFound           = "مورد درخواستی یافت نشد"
	MsgEmptyCart          = "سبد خرید شما خالی است"
	MsgInvalidInput       = "اطلاعات وارد شده معتبر نیست"
	MsgForbidden          = "شما به این بخش دسترسی ندارید"
	MsgDuplicateName      = "این نام قبلا ثبت شده است"
	MsgInternal           = "خطایی رخ داد. لطفا دوباره تلاش کنید"
	MsgCartUpdateFailed   = "خطا در به‌روزرسانی سبد خرید"
	MsgCheckoutSuccessful = "سفارش شما با موفقیت ثبت شد"

	// 認証・プロフィール
	MsgInvalidEmail       = "ایمیل وارد شده معتبر نیست"
	MsgPasswordTooShort   = "رمز عبور باید حداقل ۶ کاراکتر باشد"
	MsgPasswordMismatch   = "رمز عبور و تکرار آن یکسان نیستند"
	MsgEmailExists        = "این ایمیل قبلا ثبت شده است"
	MsgInvalidCredentials = "ایمیل یا رمز عبور اشتباه است"
	MsgUserInactive       = "حساب کاربری شما غیرفعال شده است"
	MsgInvalidProfile     = "اطلاعات پروفایل معتبر نیست"
)

// HTTPError は usecase が返すエラー。
// Message は機械向けのコード、Display は利用者向けの文言。
type HTTPError struct {
	Status  int
	Message string
	Display string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Display はステータスから決める
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Display: defaultDisplay(status),
	}
}

func NewHTTPErrorWithDisplay(status int, message string, display string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Display: display,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func defaultDisplay(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgInvalidInput
	case http.StatusUnauthorized:
		return MsgSignInRequired
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	default:
		return MsgInternal
	}
}
