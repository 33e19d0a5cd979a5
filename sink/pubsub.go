package sink

import (
	"context"
	"encoding/json"
	"os"

	"cloud.google.com/go/pubsub"
	sreCommon "github.com/devopsext/sre/common"
	"google.golang.org/api/option"

	"github.com/netopsext/netbox-sync/common"
)

type PubSubOptions struct {
	Enabled     bool
	Credentials string
	ProjectID   string
	TopicID     string
	Providers   []string
}

// PubSub publishes every polling cycle as one message, so downstream
// consumers see the same reports the NetBox sink acted on.
type PubSub struct {
	options       PubSubOptions
	logger        sreCommon.Logger
	observability *common.Observability
	client        *pubsub.Client
	topic         *pubsub.Topic
}

type PubSubPublishObject struct {
	Source string      `json:"source"`
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
}

func (ps *PubSub) Name() string {
	return "PubSub"
}

func (ps *PubSub) Providers() []string {
	return ps.options.Providers
}

func (ps *PubSub) Close() {
	if ps.topic != nil {
		ps.topic.Stop()
	}
	if ps.client != nil {
		ps.client.Close()
	}
}

func (ps *PubSub) publish(ctx context.Context, data []byte) error {

	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"source": "netbox-sync",
		},
	}

	_, err := ps.topic.Publish(ctx, msg).Get(ctx)
	return err
}

func (ps *PubSub) Process(d common.Discovery, so common.SinkObject) {

	m := so.Map()
	ps.logger.Debug("PubSub has to process %d objects from %s...", len(m), d.Name())

	data, err := json.Marshal(PubSubPublishObject{
		Source: d.Name(),
		Type:   "reports",
		Data:   m,
	})
	if err != nil {
		ps.logger.Error("PubSub Sink: %v", err)
		return
	}

	ps.logger.Debug("PubSub has to publish %d bytes...", len(data))

	if err := ps.publish(context.Background(), data); err != nil {
		ps.logger.Error("PubSub Sink: %v", err)
	}
}

func NewPubSub(options PubSubOptions, observability *common.Observability) *PubSub {

	logger := observability.Logs()

	if !options.Enabled {
		logger.Debug("PubSub sink is not enabled. Skipped")
		return nil
	}

	if options.Credentials == "" {
		logger.Debug("PubSub sink has no credentials. Skipped")
		return nil
	}

	if options.ProjectID == "" {
		logger.Debug("PubSub sink has no project id. Skipped")
		return nil
	}

	if options.TopicID == "" {
		logger.Debug("PubSub sink has no topic id. Skipped")
		return nil
	}

	var o option.ClientOption
	if _, err := os.Stat(options.Credentials); err == nil {
		o = option.WithCredentialsFile(options.Credentials)
	} else {
		o = option.WithCredentialsJSON([]byte(options.Credentials))
	}

	client, err := pubsub.NewClient(context.Background(), options.ProjectID, o)
	if err != nil {
		logger.Error("PubSub Sink: %v", err)
		return nil
	}

	options.Providers = common.RemoveEmptyStrings(options.Providers)

	return &PubSub{
		options:       options,
		logger:        logger,
		observability: observability,
		client:        client,
		topic:         client.Topic(options.TopicID),
	}
}
