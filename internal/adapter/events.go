/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/alexandremahdhaoui/vncfleet/internal/types"
)

var (
	ErrEventPublish = errors.New("publishing node event")

	errNATSConnect      = errors.New("connecting to nats")
	errNATSNotConnected = errors.New("nats is not connected")
)

const DefaultEventSubjectPrefix = "vncfleet.nodes"

// EventPublisher publishes node lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event types.NodeEvent) error
	Close()
}

// EventSubject returns the subject of the event, e.g. "vncfleet.nodes.node_1.running".
func EventSubject(prefix string, event types.NodeEvent) string {
	return fmt.Sprintf("%s.%s.%s", prefix, event.NodeID, event.Type)
}

// ------------------------------------------------- NATS PUBLISHER ------------------------------------------------- //

// NewNATSEventPublisher connects to the NATS server at url and returns an EventPublisher.
func NewNATSEventPublisher(url, subjectPrefix string) (EventPublisher, error) {
	if subjectPrefix == "" {
		subjectPrefix = DefaultEventSubjectPrefix
	}

	nc, err := nats.Connect(url,
		nats.Name("vncfleet-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", errString(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("url=%s", url), errNATSConnect)
	}

	return &natsEventPublisher{
		nc:     nc,
		prefix: subjectPrefix,
	}, nil
}

type natsEventPublisher struct {
	nc     *nats.Conn
	prefix string
}

func (p *natsEventPublisher) Publish(_ context.Context, event types.NodeEvent) error {
	if p.nc == nil || p.nc.IsClosed() {
		return errors.Join(errNATSNotConnected, ErrEventPublish)
	}

	b, err := json.Marshal(event)
	if err != nil {
		return errors.Join(err, ErrEventPublish)
	}

	if err := p.nc.Publish(EventSubject(p.prefix, event), b); err != nil {
		return errors.Join(err, ErrEventPublish)
	}

	return nil
}

func (p *natsEventPublisher) Close() {
	if p.nc == nil {
		return
	}

	if err := p.nc.Drain(); err != nil {
		slog.Warn("nats_drain_failed", "error", err.Error())
	}

	p.nc.Close()
}

// ------------------------------------------------- NOOP PUBLISHER ------------------------------------------------- //

// NewNoopEventPublisher returns an EventPublisher dropping every event.
func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, types.NodeEvent) error { return nil }

func (noopEventPublisher) Close() {}
