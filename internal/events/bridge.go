package events

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/errors"
)

// Publisher sends a message on a subject. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Bridge forwards client hook callbacks to a Publisher.
type Bridge struct {
	pub    Publisher
	logger *zerolog.Logger
	now    func() time.Time
}

// NewBridge creates a bridge publishing through pub.
func NewBridge(pub Publisher, logger *zerolog.Logger) *Bridge {
	return &Bridge{pub: pub, logger: logger, now: time.Now}
}

// Attach registers the bridge on a client's hooks.
func (b *Bridge) Attach(h biocards.Hooks) {
	h.OnCardAdded(func(card cards.Card) {
		b.publish(NewEvent(CardAdded, card, nil, b.now()))
	})
	h.OnCardUpdated(func(old, card cards.Card) {
		b.publish(NewEvent(CardUpdated, card, &old, b.now()))
	})
	h.OnCardRemoved(func(card cards.Card) {
		b.publish(NewEvent(CardRemoved, card, nil, b.now()))
	})
}

func (b *Bridge) publish(e Event) {
	data, err := e.Encode()
	if err != nil {
		b.logger.Error().Err(err).Str("card_id", e.Card.ID).Msg("Failed to encode card event")
		return
	}

	subject := e.Type.Subject()
	if err := b.pub.Publish(subject, data); err != nil {
		b.logger.Warn().Err(err).Str("subject", subject).Str("card_id", e.Card.ID).Msg("Failed to publish card event")
		return
	}
	b.logger.Debug().Str("subject", subject).Str("card_id", e.Card.ID).Msg("Card event published")
}

// Connect dials the NATS server at url, authenticating with token when
// one is given.
func Connect(url, token string) (*nats.Conn, error) {
	if url == "" {
		return nil, errors.NewConfigError("nats", "url is required", nil)
	}

	opts := []nats.Option{
		nats.Name("biocards"),
		nats.Timeout(5 * time.Second),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.NewConfigError("nats", "connecting to "+url, err)
	}
	return conn, nil
}
