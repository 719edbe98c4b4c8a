// Package natsfeed is a FillSink that publishes fills to a NATS subject
// for consumers outside this process.
package natsfeed

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/novaex/lob/pkg/lob"
	"github.com/novaex/lob/pkg/obslog"
)

type wireFill struct {
	Symbol   string `json:"symbol"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	SideSign int8   `json:"side_sign"`
}

// Publisher publishes every fill as a JSON message on Subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  obslog.Logger
}

// Connect dials url and returns a Publisher bound to subject.
func Connect(url, subject string, logger obslog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = obslog.Nop()
	}
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, subject: subject, logger: logger}, nil
}

// OnFill implements lob.FillSink.
func (p *Publisher) OnFill(e lob.FillEvent) {
	payload, err := json.Marshal(wireFill{
		Symbol:   e.Symbol,
		Price:    e.Price.String(),
		Quantity: e.Quantity.String(),
		SideSign: e.SideSign,
	})
	if err != nil {
		p.logger.Error("marshal fill", "error", err)
		return
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Error("nats publish failed", "error", err)
	}
}

// Close closes the underlying connection; it does not drain it first.
func (p *Publisher) Close() {
	p.conn.Close()
}
