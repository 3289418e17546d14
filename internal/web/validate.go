package web

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var twPhone = regexp.MustCompile(`^09\d{8}$`)

// ValidationError is a form rejected before it reached the API.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validator pre-checks form input with the same rules the API enforces.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("twphone", func(fl validator.FieldLevel) bool {
		return twPhone.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct returns the first failed rule as a *ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())

	switch fe.Tag() {
	case "required":
		return label + "為必填"
	case "twphone":
		return label + "格式錯誤，請輸入 09 開頭的 10 位數字"
	case "email":
		return label + "格式錯誤"
	case "hexcolor", "len":
		if fe.Field() == "color" {
			return "顏色格式錯誤，請使用 #RRGGBB"
		}
		return label + "長度錯誤"
	case "max":
		return fmt.Sprintf("%s不可超過 %s 個字", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s至少需要 %s 個字", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s不可小於 %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s不可大於 %s", label, fe.Param())
	case "oneof":
		return label + "不是有效的選項"
	case "datetime":
		return label + "格式錯誤，請使用 YYYY-MM-DD"
	default:
		return label + "無效"
	}
}

var fieldLabels = map[string]string{
	"name":               "名稱",
	"phone":              "電話",
	"contact_phone":      "聯絡電話",
	"email":              "電子郵件",
	"password":           "密碼",
	"color":              "顏色",
	"site_id":            "停車場",
	"space_id":           "車位",
	"customer_id":        "客戶",
	"prefix":             "前綴",
	"start":              "起始編號",
	"count":              "數量",
	"agreement_type":     "租用類型",
	"start_date":         "開始日期",
	"price":              "價格",
	"license_plates":     "車牌",
	"termination_reason": "終止原因",
	"payment_date":       "付款日期",
	"due_date":           "到期日",
	"bank_reference":     "銀行參考號",
	"monthly_base_price": "月租基本價",
	"daily_base_price":   "日租基本價",
	"monthly_price":      "月租價",
	"daily_price":        "日租價",
	"custom_price":       "自訂價格",
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}
