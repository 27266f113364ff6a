package validate_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/business/sys/validate"
)

type sendMoney struct {
	To     string          `json:"to" validate:"required,hash"`
	Amount decimal.Decimal `json:"amount" validate:"amount"`
}

func Test_Check(t *testing.T) {
	type table struct {
		name   string
		val    sendMoney
		fields []string
	}

	hash := strings.Repeat("ab", 32)

	tt := []table{
		{name: "valid", val: sendMoney{To: hash, Amount: decimal.RequireFromString("0.5")}},
		{name: "missing", val: sendMoney{Amount: decimal.NewFromInt(1)}, fields: []string{"to"}},
		{name: "nothex", val: sendMoney{To: strings.Repeat("zz", 32), Amount: decimal.NewFromInt(1)}, fields: []string{"to"}},
		{name: "upper", val: sendMoney{To: strings.ToUpper(hash), Amount: decimal.NewFromInt(1)}, fields: []string{"to"}},
		{name: "zero", val: sendMoney{To: hash}, fields: []string{"amount"}},
		{name: "negative", val: sendMoney{To: hash, Amount: decimal.NewFromInt(-1)}, fields: []string{"amount"}},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := validate.Check(tst.val)

			if len(tst.fields) == 0 {
				if err != nil {
					t.Fatalf("Test %s:\tShould pass validation: %v", tst.name, err)
				}
				return
			}

			fe := validate.GetFieldErrors(err)
			if fe == nil {
				t.Fatalf("Test %s:\tShould get back field errors: %v", tst.name, err)
			}

			fields := fe.Fields()
			for _, field := range tst.fields {
				if _, exists := fields[field]; !exists {
					t.Fatalf("Test %s:\tShould report the %s field: %v", tst.name, field, fields)
				}
			}
		}

		t.Run(tst.name, f)
	}
}
