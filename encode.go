package brokerage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/brokerage/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Book is the whole persisted state of a brokerage account: security
// definitions, trades with their cash-flow components, security events,
// exchange rates and current quotes. It is what reports are computed from.
type Book struct {
	Securities   []Security
	Transactions []Transaction
	Flows        []TransactionCashFlow
	Events       []CashFlowEvent
	Rates        *RateTable
	Quotes       map[string]Quote // by security id
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{Rates: NewRateTable(), Quotes: make(map[string]Quote)}
}

// Security returns the definition of a security by id.
func (b *Book) Security(id string) (Security, bool) {
	for _, s := range b.Securities {
		if s.ID() == id {
			return s, true
		}
	}
	return Security{}, false
}

// Quote returns the current quote of a security, nil when unknown.
func (b *Book) Quote(id string) *Quote {
	q, ok := b.Quotes[id]
	if !ok {
		return nil
	}
	return &q
}

// The book is persisted as JSONL: one record per line, identified by its
// "record" attribute. The format is append-friendly and git-friendly, records
// of any kind can be interleaved.

// RecordType identifies one line kind of the book file.
type RecordType string

const (
	RecordSecurity RecordType = "security"
	RecordTx       RecordType = "tx"
	RecordFlow     RecordType = "flow"
	RecordEvent    RecordType = "event"
	RecordRate     RecordType = "rate"
	RecordQuote    RecordType = "quote"
)

// amountCmd reads a monetary value split in two attributes.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money { return M(a.Amount, a.Currency) }

// DecodeBook decodes a book from a stream of JSONL data. Lines are decoded
// in order, later records overwrite earlier ones where the key collides
// (rates, quotes).
func DecodeBook(r io.Reader) (*Book, error) {
	book := NewBook()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(raw, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify record in %q: %w", line, string(raw), err)
		}

		var err error
		switch identifier.Record {
		case RecordSecurity:
			var temp struct {
				ID       string `json:"id"`
				Ticker   string `json:"ticker"`
				Type     string `json:"type"`
				Name     string `json:"name"`
				Currency string `json:"currency"`
			}
			if err = json.Unmarshal(raw, &temp); err != nil {
				break
			}
			var typ SecurityType
			if typ, err = ParseSecurityType(temp.Type); err != nil {
				break
			}
			book.Securities = append(book.Securities, NewSecurity(temp.ID, temp.Ticker, typ, temp.Name, temp.Currency))

		case RecordTx:
			var temp struct {
				ID        string    `json:"id"`
				Portfolio string    `json:"portfolio"`
				Security  string    `json:"security"`
				Count     int64     `json:"count"`
				Timestamp time.Time `json:"timestamp"`
			}
			if err = json.Unmarshal(raw, &temp); err != nil {
				break
			}
			book.Transactions = append(book.Transactions, Transaction{
				ID:        temp.ID,
				Portfolio: temp.Portfolio,
				Security:  temp.Security,
				Count:     temp.Count,
				Timestamp: temp.Timestamp,
			})

		case RecordFlow:
			var temp struct {
				amountCmd
				Transaction string `json:"transaction"`
				Type        string `json:"type"`
			}
			if err = json.Unmarshal(raw, &temp); err != nil {
				break
			}
			var typ TradeFlowType
			if typ, err = ParseTradeFlowType(temp.Type); err != nil {
				break
			}
			book.Flows = append(book.Flows, TransactionCashFlow{
				TransactionID: temp.Transaction,
				Type:          typ,
				Value:         temp.Money(),
			})

		case RecordEvent:
			var temp struct {
				amountCmd
				Portfolio string    `json:"portfolio"`
				Security  string    `json:"security"`
				Type      string    `json:"type"`
				Timestamp time.Time `json:"timestamp"`
				Count     int64     `json:"count"`
			}
			if err = json.Unmarshal(raw, &temp); err != nil {
				break
			}
			var typ EventType
			if typ, err = ParseEventType(temp.Type); err != nil {
				break
			}
			book.Events = append(book.Events, CashFlowEvent{
				Portfolio: temp.Portfolio,
				Security:  temp.Security,
				Type:      typ,
				Value:     temp.Money(),
				Timestamp: temp.Timestamp,
				Count:     temp.Count,
			})

		case RecordRate:
			var temp struct {
				From string          `json:"from"`
				To   string          `json:"to"`
				On   date.Date       `json:"on"`
				Rate decimal.Decimal `json:"rate"`
			}
			if err = json.Unmarshal(raw, &temp); err != nil {
				break
			}
			book.Rates.Add(temp.From, temp.To, temp.On, temp.Rate)

		case RecordQuote:
			var temp struct {
				Security string          `json:"security"`
				Price    decimal.Decimal `json:"price"`
				Accrued  decimal.Decimal `json:"accrued"`
				Currency string          `json:"currency"`
			}
			if err = json.Unmarshal(raw, &temp); err != nil {
				break
			}
			book.Quotes[temp.Security] = Quote{
				Price:           M(temp.Price, temp.Currency),
				AccruedInterest: M(temp.Accrued, temp.Currency),
			}

		default:
			err = fmt.Errorf("unknown record type %q", identifier.Record)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return book, nil
}

// record wraps a marshaler so the "record" attribute always comes first.
func record(typ RecordType, body json.Marshaler) json.Marshaler {
	var w jsonObjectWriter
	w.Append("record", typ)
	w.EmbedFrom(body)
	return &w
}

type quoteRecord struct {
	security string
	q        Quote
}

func (r quoteRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", r.security)
	w.Append("price", r.q.Price.Value())
	if !r.q.AccruedInterest.IsZero() {
		w.Append("accrued", r.q.AccruedInterest.Value())
	}
	w.Append("currency", r.q.Price.Currency())
	return w.MarshalJSON()
}

type rateRecord struct {
	from, to string
	on       date.Date
	rate     decimal.Decimal
}

func (r rateRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("from", r.from)
	w.Append("to", r.to)
	w.Append("on", r.on)
	w.Append("rate", r.rate)
	return w.MarshalJSON()
}

// EncodeBook writes the book as JSONL, securities first, then trades with
// their flows, events, rates and quotes. Encoding the decoded stream is
// stable.
func EncodeBook(w io.Writer, b *Book) error {
	bw := bufio.NewWriter(w)
	writeRecord := func(typ RecordType, body json.Marshaler) error {
		data, err := json.Marshal(record(typ, body))
		if err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	}

	var err error
	for _, s := range b.Securities {
		if err = writeRecord(RecordSecurity, s); err != nil {
			return err
		}
	}
	for _, tx := range b.Transactions {
		if err = writeRecord(RecordTx, tx); err != nil {
			return err
		}
	}
	for _, f := range b.Flows {
		if err = writeRecord(RecordFlow, f); err != nil {
			return err
		}
	}
	for _, e := range b.Events {
		if err = writeRecord(RecordEvent, e); err != nil {
			return err
		}
	}
	if b.Rates != nil {
		b.Rates.Each(func(from, to string, on date.Date, rate decimal.Decimal) {
			if err == nil {
				err = writeRecord(RecordRate, rateRecord{from: from, to: to, on: on, rate: rate})
			}
		})
		if err != nil {
			return err
		}
	}
	ids := make([]string, 0, len(b.Quotes))
	for id := range b.Quotes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if err = writeRecord(RecordQuote, quoteRecord{security: id, q: b.Quotes[id]}); err != nil {
			return err
		}
	}
	return bw.Flush()
}
