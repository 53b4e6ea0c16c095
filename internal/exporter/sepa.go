package exporter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"clubportal/pkg/contracts/domain"
)

// SEPA document constants
const (
	SEPANamespace      = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"
	sepaCurrency       = "EUR"
	sepaMsgIDLayout    = "20060102150405"
	sepaCreatedLayout  = "2006-01-02T15:04:05"
	sepaExecDateLayout = "2006-01-02"
)

// SEPAOptions configures identifiers and the clock of the generator
type SEPAOptions struct {
	MessagePrefix  string // default "TSC"
	EndToEndPrefix string // default "STARTGELD"
	// UniqueMessageID appends a random suffix to the second-granularity
	// message ID. Off by default, so two documents generated within the
	// same second share a message ID.
	UniqueMessageID bool
	Now             func() time.Time
}

// SEPAGenerator renders pain.001.001.03 credit transfer initiations
type SEPAGenerator struct {
	opts SEPAOptions
}

// NewSEPAGenerator creates a generator, filling unset options with defaults
func NewSEPAGenerator(opts SEPAOptions) *SEPAGenerator {
	if opts.MessagePrefix == "" {
		opts.MessagePrefix = "TSC"
	}
	if opts.EndToEndPrefix == "" {
		opts.EndToEndPrefix = "STARTGELD"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SEPAGenerator{opts: opts}
}

// MessageID returns the message identifier for a document created at now
func (g *SEPAGenerator) MessageID(now time.Time) string {
	id := g.opts.MessagePrefix + "-" + now.Format(sepaMsgIDLayout)
	if g.opts.UniqueMessageID {
		id += "-" + uuid.NewString()[:8]
	}
	return id
}

// Generate renders the document for payments, initiated from the creditor
// (club) account. An empty payment list yields a document with NbOfTxs 0.
func (g *SEPAGenerator) Generate(payments []domain.PaymentInstruction, creditor domain.CreditorInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, payments, creditor); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the document to w
func (g *SEPAGenerator) Write(w io.Writer, payments []domain.PaymentInstruction, creditor domain.CreditorInfo) error {
	doc := g.build(payments, creditor)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode sepa document: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write sepa document: %w", err)
	}
	return nil
}

func (g *SEPAGenerator) build(payments []domain.PaymentInstruction, creditor domain.CreditorInfo) *sepaDocument {
	now := g.opts.Now()
	msgID := g.MessageID(now)

	total := decimal.Zero
	txs := make([]sepaTransaction, 0, len(payments))
	for i, p := range payments {
		total = total.Add(p.Amount)
		txs = append(txs, sepaTransaction{
			PmtID:    sepaPaymentID{EndToEndID: g.opts.EndToEndPrefix + "-" + strconv.Itoa(i+1)},
			Amt:      sepaAmount{InstdAmt: sepaInstructedAmount{Ccy: sepaCurrency, Value: formatAmount(p.Amount)}},
			CdtrAgt:  sepaAgent{FinInstnID: sepaFinInstn{BIC: orBIC(p.BIC)}},
			Cdtr:     sepaParty{Nm: orPlaceholder(p.Name)},
			CdtrAcct: sepaAccount{ID: sepaAccountID{IBAN: sepaIBAN(p.IBAN)}},
			RmtInf:   sepaRemittance{Ustrd: orPlaceholder(p.Reference)},
		})
	}

	count := strconv.Itoa(len(payments))
	ctrlSum := formatAmount(total)
	club := orPlaceholder(creditor.Name)

	return &sepaDocument{
		Xmlns: SEPANamespace,
		Initiation: sepaInitiation{
			GrpHdr: sepaGroupHeader{
				MsgID:    msgID,
				CreDtTm:  now.Format(sepaCreatedLayout),
				NbOfTxs:  count,
				CtrlSum:  ctrlSum,
				InitgPty: sepaParty{Nm: club},
			},
			PmtInf: sepaPaymentInfo{
				PmtInfID:     msgID + "-1",
				PmtMtd:       "TRF",
				BtchBookg:    "true",
				NbOfTxs:      count,
				CtrlSum:      ctrlSum,
				PmtTpInf:     sepaPaymentType{SvcLvl: sepaServiceLevel{Cd: "SEPA"}},
				ReqdExctnDt:  now.AddDate(0, 0, 1).Format(sepaExecDateLayout),
				Dbtr:         sepaParty{Nm: club},
				DbtrAcct:     sepaAccount{ID: sepaAccountID{IBAN: sepaIBAN(creditor.IBAN)}},
				DbtrAgt:      sepaAgent{FinInstnID: sepaFinInstn{BIC: orBIC(creditor.BIC)}},
				ChrgBr:       "SLEV",
				Transactions: txs,
			},
		},
	}
}

// sepaIBAN normalizes an IBAN, falling back to Placeholder when empty
func sepaIBAN(iban string) string {
	return orPlaceholder(NormalizeIBAN(iban))
}

type sepaDocument struct {
	XMLName    xml.Name       `xml:"Document"`
	Xmlns      string         `xml:"xmlns,attr"`
	Initiation sepaInitiation `xml:"CstmrCdtTrfInitn"`
}

type sepaInitiation struct {
	GrpHdr sepaGroupHeader `xml:"GrpHdr"`
	PmtInf sepaPaymentInfo `xml:"PmtInf"`
}

type sepaGroupHeader struct {
	MsgID    string    `xml:"MsgId"`
	CreDtTm  string    `xml:"CreDtTm"`
	NbOfTxs  string    `xml:"NbOfTxs"`
	CtrlSum  string    `xml:"CtrlSum"`
	InitgPty sepaParty `xml:"InitgPty"`
}

type sepaPaymentInfo struct {
	PmtInfID     string            `xml:"PmtInfId"`
	PmtMtd       string            `xml:"PmtMtd"`
	BtchBookg    string            `xml:"BtchBookg"`
	NbOfTxs      string            `xml:"NbOfTxs"`
	CtrlSum      string            `xml:"CtrlSum"`
	PmtTpInf     sepaPaymentType   `xml:"PmtTpInf"`
	ReqdExctnDt  string            `xml:"ReqdExctnDt"`
	Dbtr         sepaParty         `xml:"Dbtr"`
	DbtrAcct     sepaAccount       `xml:"DbtrAcct"`
	DbtrAgt      sepaAgent         `xml:"DbtrAgt"`
	ChrgBr       string            `xml:"ChrgBr"`
	Transactions []sepaTransaction `xml:"CdtTrfTxInf"`
}

type sepaPaymentType struct {
	SvcLvl sepaServiceLevel `xml:"SvcLvl"`
}

type sepaServiceLevel struct {
	Cd string `xml:"Cd"`
}

type sepaParty struct {
	Nm string `xml:"Nm"`
}

type sepaAccount struct {
	ID sepaAccountID `xml:"Id"`
}

type sepaAccountID struct {
	IBAN string `xml:"IBAN"`
}

type sepaAgent struct {
	FinInstnID sepaFinInstn `xml:"FinInstnId"`
}

type sepaFinInstn struct {
	BIC string `xml:"BIC"`
}

type sepaTransaction struct {
	PmtID    sepaPaymentID  `xml:"PmtId"`
	Amt      sepaAmount     `xml:"Amt"`
	CdtrAgt  sepaAgent      `xml:"CdtrAgt"`
	Cdtr     sepaParty      `xml:"Cdtr"`
	CdtrAcct sepaAccount    `xml:"CdtrAcct"`
	RmtInf   sepaRemittance `xml:"RmtInf"`
}

type sepaPaymentID struct {
	EndToEndID string `xml:"EndToEndId"`
}

type sepaAmount struct {
	InstdAmt sepaInstructedAmount `xml:"InstdAmt"`
}

type sepaInstructedAmount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

type sepaRemittance struct {
	Ustrd string `xml:"Ustrd"`
}
