package bankledger

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Statement renders a PDF statement to w. A non-zero CardNumber selects the
// card statement; otherwise AccountID selects a deposit account.
func (s *serviceImpl) Statement(w io.Writer, req StatementReq) error {
	if req.CardNumber != 0 {
		card, err := s.ledger.reg.FindCard(req.Bank, req.CardNumber)
		if err != nil {
			return err
		}
		return renderCardStatement(w, card)
	}

	acct, err := s.ledger.reg.FindAccountByID(req.Bank, req.AccountID)
	if err != nil {
		return err
	}
	return renderAccountStatement(w, acct)
}

func statementPDF(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	return pdf
}

func statementLine(pdf *fpdf.Fpdf, label string, value string) {
	pdf.CellFormat(60, 8, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, value, "", 1, "R", false, 0, "")
}

func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func renderAccountStatement(w io.Writer, acct Account) error {
	pdf := statementPDF(fmt.Sprintf("%s account statement", acct.BankName()))
	statementLine(pdf, "Account", fmt.Sprintf("%d", acct.AccountID()))
	statementLine(pdf, "Customer", fmt.Sprintf("%d", acct.CustomerID()))
	statementLine(pdf, "Balance", money(acct.Balance()))
	switch a := acct.(type) {
	case *SavingsAccount:
		statementLine(pdf, "Type", "Savings Account")
		statementLine(pdf, "Minimum balance", money(a.MinimumBalance()))
		statementLine(pdf, "Interest rate", a.InterestRate().Mul(decimal.NewFromInt(100)).StringFixed(2)+"%")
	case *CheckingAccount:
		statementLine(pdf, "Type", "Checking Account")
		statementLine(pdf, "Overdraft limit", money(a.OverdraftLimit()))
		statementLine(pdf, "Overdraft fee", money(a.OverdraftFee()))
	}
	return pdf.Output(w)
}

func renderCardStatement(w io.Writer, card *CreditCard) error {
	pdf := statementPDF(fmt.Sprintf("%s credit card statement", card.BankName()))
	statementLine(pdf, "Card", card.FormattedNumber())
	statementLine(pdf, "Customer", fmt.Sprintf("%d", card.CustomerID()))
	statementLine(pdf, "Credit limit", money(card.CreditLimit()))
	statementLine(pdf, "APR", card.APR().Mul(decimal.NewFromInt(100)).StringFixed(2)+"%")
	statementLine(pdf, "Statement balance", money(card.StatementBalance()))
	statementLine(pdf, "Current balance", money(card.CurrentBalance()))
	return pdf.Output(w)
}
