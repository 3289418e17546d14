// Package format renders values for display in the console pages.
package format

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hauwenw/ping-parking/internal/storage"
)

const (
	currencyPrefix = "NT$"
	dateLayout     = "2006年01月02日"
	dateTimeLayout = "2006年01月02日 15:04"
)

// Taiwan has no daylight saving time.
var taipei = time.FixedZone("CST", 8*60*60)

var printer = message.NewPrinter(language.AmericanEnglish)

// Phone groups a 10-character number as XXXX-XXX-XXX; anything else is returned as is.
func Phone(phone string) string {
	if utf8.RuneCountInString(phone) != 10 {
		return phone
	}
	r := []rune(phone)
	return string(r[:4]) + "-" + string(r[4:7]) + "-" + string(r[7:])
}

func Currency(amount int64) string {
	return currencyPrefix + printer.Sprintf("%d", amount)
}

// Date accepts YYYY-MM-DD or an RFC 3339 timestamp. Unparsable input is returned unchanged.
func Date(value string) string {
	if d, err := time.Parse(time.DateOnly, value); err == nil {
		return d.Format(dateLayout)
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.In(taipei).Format(dateLayout)
	}
	return value
}

func DateTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.In(taipei).Format(dateTimeLayout)
}

func RentalType(v storage.RentalType) string { return v.Label() }

func SpaceStatus(v storage.SpaceStatus) string { return v.Label() }

func PaymentStatus(v storage.PaymentStatus) string { return v.Label() }
