package v1

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"

	"tronwatch/api/internal/domain"
	"tronwatch/pkg/utils"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// wallet_address - string - base58check, mainnet
// amount - float - up to 1e8 usdt
// order_id - string - max 100
// callback_url - string - absolute http(s)

const tronAddressVersion = 0x41

var maxAmount = decimal.NewFromInt(100000000)

type NewPaymentData struct {
	WalletAddress string  `json:"wallet_address" validate:"required,tronaddr"`
	AmountFloat   float64 `json:"expected_amount_usdt" validate:"required,gt=0"`
	OrderID       string  `json:"order_id" validate:"required,max=100"`
	CallbackURL   string  `json:"callback_url" validate:"required,callbackurl"`

	Amount decimal.Decimal `json:"-"` // used after validation
}

// checks the validity of data in query
// returns false if there is an error
func filterQuery(c *gin.Context) (*NewPaymentData, bool) {
	var data NewPaymentData
	err := c.ShouldBindJSON(&data)
	if err != nil {
		responseErr(c, http.StatusBadRequest, domain.ErrMsgBadRequest, "")
		return nil, false
	}

	v := validator.New()

	v.RegisterValidation("tronaddr", validateTronAddress)
	v.RegisterValidation("callbackurl", validateCallbackUrl)
	err = v.Struct(data)
	if err == nil {
		data.Amount = decimal.NewFromFloat(data.AmountFloat)

		if data.Amount.GreaterThan(maxAmount) {
			responseErr(c, http.StatusBadRequest, fmt.Sprintf("field 'expected_amount_usdt' must be at most %s", maxAmount), "")
			return nil, false
		}

		return &data, true
	}

	validationErrs, err := utils.SafeCast[validator.ValidationErrors](err)
	if err != nil || validationErrs == nil {
		responseErr(c, http.StatusBadRequest, domain.ErrMsgBadRequest, "")
		return nil, false
	}

	validationErr := validationErrs[0]
	responseErr(c, http.StatusBadRequest, formatValidationErr(data, validationErr), "")

	return nil, false
}

// IsTronAddress reports whether s is a base58check encoded mainnet
// address. 34 chars, 'T' prefix, version byte 0x41
func IsTronAddress(s string) bool {
	if len(s) != 34 || s[0] != 'T' {
		return false
	}

	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return false
	}

	return version == tronAddressVersion && len(payload) == 20
}

func validateTronAddress(fl validator.FieldLevel) bool {
	return IsTronAddress(fl.Field().String())
}

func isCallbackUrl(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateCallbackUrl(fl validator.FieldLevel) bool {
	return isCallbackUrl(fl.Field().String())
}

func formatValidationErr(data any, err validator.FieldError) string {
	jsonTag := getJSONTag(data, err.StructField())

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", jsonTag)
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters long", jsonTag, err.Param())
	case "gt":
		return fmt.Sprintf("field '%s' must be greater than %s", jsonTag, err.Param())
	//  custom tags
	case "tronaddr":
		return domain.ErrMsgInvalidTronAddress
	case "callbackurl":
		return domain.ErrMsgInvalidCallbackUrl

	default:
		return fmt.Sprintf("invalid field '%s'", jsonTag)
	}
}

func getJSONTag(structType any, fieldName string) string {
	typ := reflect.TypeOf(structType)
	field, _ := typ.FieldByName(fieldName)
	tag := field.Tag.Get("json")
	if tag == "" {
		return fieldName
	}
	return tag
}
