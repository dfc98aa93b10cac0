package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/logward/logward/pkg/config"
	"github.com/logward/logward/pkg/errors"
	"github.com/logward/logward/pkg/metrics"
)

// elasticSink ships structured records to a remote Elasticsearch store, one
// document per log event, into a daily index named "<prefix>-<YYYY.MM.DD>".
//
// Delivery is best-effort and non-blocking: records are handed to a bounded queue
// consumed by a background worker. When the queue is full the record is dropped
// and counted. Delivery errors are written to the fallback error stream and never
// surface to the caller.
type elasticSink struct {
	cfg    config.ElasticConfig
	now    func() time.Time
	errOut io.Writer

	clientMu sync.RWMutex
	client   *elasticsearch.Client

	queue chan remoteDoc
	done  chan struct{}
	wg    sync.WaitGroup
}

// remoteDoc is one queued document. The target index day is captured at enqueue
// time so a record logged just before midnight lands in that day's index.
type remoteDoc struct {
	day  string
	body []byte
}

func newElasticSink(cfg config.ElasticConfig, now func() time.Time, errOut io.Writer) *elasticSink {
	if errOut == nil {
		errOut = os.Stderr
	}
	s := &elasticSink{
		cfg:    cfg,
		now:    now,
		errOut: errOut,
		queue:  make(chan remoteDoc, cfg.QueueSize),
		done:   make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// Connect establishes the Elasticsearch client and verifies reachability.
// An invalid configuration or rejected credentials is a permanent error; an
// unreachable store is temporary and worth retrying.
func (s *elasticSink) Connect(ctx context.Context) error {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: s.cfg.Hosts,
		Username:  s.cfg.Username,
		Password:  s.cfg.Password,
	})
	if err != nil {
		return errors.NewPermanent("invalid remote store configuration", err)
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return errors.NewTemporary("remote store unreachable", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 401 || res.StatusCode == 403 {
		return errors.NewPermanent("remote store rejected credentials", nil)
	}
	if res.IsError() {
		return errors.NewTemporary(fmt.Sprintf("remote store ping returned %s", res.Status()), nil)
	}

	s.clientMu.Lock()
	s.client = client
	s.clientMu.Unlock()

	return nil
}

// Connected reports whether a client has been established.
func (s *elasticSink) Connected() bool {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	return s.client != nil
}

// Ping verifies the remote store is currently reachable.
func (s *elasticSink) Ping(ctx context.Context) error {
	s.clientMu.RLock()
	client := s.client
	s.clientMu.RUnlock()

	if client == nil {
		return errors.NewTemporary("remote store not connected", nil)
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return errors.NewTemporary("remote store unreachable", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewTemporary(fmt.Sprintf("remote store ping returned %s", res.Status()), nil)
	}
	return nil
}

// Write enqueues one structured record for background delivery. It never blocks:
// on queue overflow the record is dropped and counted.
func (s *elasticSink) Write(p []byte) (int, error) {
	doc := remoteDoc{
		day:  s.now().UTC().Format("2006.01.02"),
		body: append([]byte(nil), p...), // the event buffer is reused by the caller
	}

	select {
	case s.queue <- doc:
		metrics.SetQueueDepth(SinkElastic, len(s.queue))
	default:
		metrics.RecordDropped(SinkElastic, metrics.ReasonQueueFull)
		fmt.Fprintf(s.errOut, "logward: %s sink: queue full, dropping record\n", SinkElastic)
	}

	return len(p), nil
}

func (s *elasticSink) run() {
	defer s.wg.Done()

	for {
		select {
		case doc := <-s.queue:
			metrics.SetQueueDepth(SinkElastic, len(s.queue))
			s.deliver(doc)
		case <-s.done:
			// Flush whatever is already queued, then stop.
			for {
				select {
				case doc := <-s.queue:
					s.deliver(doc)
				default:
					return
				}
			}
		}
	}
}

func (s *elasticSink) deliver(doc remoteDoc) {
	s.clientMu.RLock()
	client := s.client
	s.clientMu.RUnlock()

	if client == nil {
		metrics.RecordDropped(SinkElastic, metrics.ReasonNotConnected)
		return
	}

	index := fmt.Sprintf("%s-%s", s.cfg.IndexPrefix, doc.day)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FlushTimeout)
	defer cancel()

	start := time.Now()
	res, err := client.Index(index, bytes.NewReader(doc.body), client.Index.WithContext(ctx))
	metrics.ObserveDeliveryDuration(SinkElastic, time.Since(start).Seconds())

	if err != nil {
		metrics.RecordDropped(SinkElastic, metrics.ReasonDelivery)
		fmt.Fprintf(s.errOut, "logward: %s sink: index %s: %v\n", SinkElastic, index, err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.RecordDropped(SinkElastic, metrics.ReasonDelivery)
		fmt.Fprintf(s.errOut, "logward: %s sink: index %s: %s\n", SinkElastic, index, res.Status())
	}
}

// Close stops the background worker after flushing queued records, waiting no
// longer than the context allows.
func (s *elasticSink) Close(ctx context.Context) error {
	close(s.done)

	stopped := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
