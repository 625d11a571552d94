package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	nc          *nats.Conn
	prefix      string
	logSubjects bool
	metrics     PublisherMetrics
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

// NewNATSPublisher connects to url and publishes trip events under prefix.
// m may be nil.
func NewNATSPublisher(url, prefix string, logSubjects bool, m PublisherMetrics) (*NATSPublisher, error) {
	p := &NATSPublisher{prefix: prefix, logSubjects: logSubjects, metrics: m}
	nc, err := nats.Connect(url,
		nats.Name("worldtour"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			p.setConnected(false)
			if err != nil {
				log.Printf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			p.setConnected(true)
			log.Printf("nats reconnected to %s", c.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			p.setConnected(false)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	p.nc = nc
	p.setConnected(true)
	return p, nil
}

func (p *NATSPublisher) setConnected(b bool) {
	if p.metrics != nil {
		p.metrics.NATSSetConnected(b)
	}
}

// Close flushes pending trip events before dropping the connection.
func (p *NATSPublisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
		log.Printf("nats flush: %v", err)
	}
	p.nc.Close()
}

type HopMessage struct {
	OriginID   int64     `json:"origin"`
	Step       int       `json:"step"`
	FromID     int64     `json:"fromId"`
	ToID       int64     `json:"toId"`
	ToName     string    `json:"toName"`
	Rank       int       `json:"rank"`
	DistanceKm float64   `json:"distanceKm"`
	Bearing    float64   `json:"bearing"`
	Hours      int       `json:"hours"`
	TotalHours int       `json:"totalHours"`
	Timestamp  time.Time `json:"timestamp"`
}

type SummaryMessage struct {
	OriginID   int64     `json:"origin"`
	State      string    `json:"state"`
	Hops       int       `json:"hops"`
	TotalHours int       `json:"totalHours"`
	Days       float64   `json:"days"`
	Feasible   bool      `json:"feasible"`
	Timestamp  time.Time `json:"timestamp"`
}

func (p *NATSPublisher) PublishHop(originID int64, msg HopMessage) error {
	return p.publish(Subject(p.prefix, originID, "hop"), msg)
}

func (p *NATSPublisher) PublishSummary(originID int64, msg SummaryMessage) error {
	return p.publish(Subject(p.prefix, originID, "summary"), msg)
}

func (p *NATSPublisher) publish(subject string, msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Printf("nats publish subject=%s", subject)
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

// Subject builds "<prefix>.<origin>.<kind>".
func Subject(prefix string, originID int64, kind string) string {
	return fmt.Sprintf("%s.%d.%s", subjectToken(prefix), originID, subjectToken(kind))
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
