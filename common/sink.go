package common

import (
	"reflect"

	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"
)

type SinkMap map[string]interface{}

type SinkObject interface {
	Map() SinkMap
	Options() interface{}
}

type Sink interface {
	Process(d Discovery, so SinkObject)
	Name() string
	Providers() []string
}

type Sinks struct {
	list   []Sink
	logger sreCommon.Logger
}

func (ss *Sinks) Add(s Sink) {
	ss.list = append(ss.list, s)
}

func (ss *Sinks) Process(d Discovery, so SinkObject) {

	for _, s := range ss.list {

		if reflect.ValueOf(s).IsNil() {
			continue
		}

		providers := s.Providers()
		if !utils.IsEmpty(providers) && !utils.Contains(providers, d.Name()) {
			ss.logger.Debug("%s has no %s in providers %s. Skipped", s.Name(), d.Name(), providers)
			continue
		}
		s.Process(d, so)
	}
}

func NewSinks(observability *Observability) *Sinks {

	logger := observability.Logs()

	return &Sinks{
		logger: logger,
	}
}
