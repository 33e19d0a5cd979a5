package sink

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"

	"github.com/netopsext/netbox-sync/common"
)

type JsonOptions struct {
	Dir       string
	Checksum  bool
	Providers []string
}

type Json struct {
	options       JsonOptions
	logger        sreCommon.Logger
	observability *common.Observability
}

func (j *Json) Name() string {
	return "Json"
}

func (j *Json) Providers() []string {
	return j.options.Providers
}

func (j *Json) Process(d common.Discovery, so common.SinkObject) {

	m := so.Map()
	j.logger.Debug("Json has to process %d objects from %s...", len(m), d.Name())

	for k, v := range m {

		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			j.logger.Error("Json couldn't marshal %s: %s", k, err)
			continue
		}

		name := strings.ReplaceAll(k, "/", "_")
		path := filepath.Join(j.options.Dir, fmt.Sprintf("%s.json", name))

		exists, err := common.FileWriteWithCheckSum(path, data, j.options.Checksum)
		if err != nil {
			j.logger.Error("Json couldn't be written to %s: %s", path, err)
			continue
		}
		if exists {
			j.logger.Debug("Json exists in %s", path)
			continue
		}
		j.logger.Debug("Json created/updated in %s", path)
	}
}

func NewJson(options JsonOptions, observability *common.Observability) *Json {

	logger := observability.Logs()

	if utils.IsEmpty(options.Dir) {
		logger.Debug("Json has no directory. Skipped")
		return nil
	}

	options.Providers = common.RemoveEmptyStrings(options.Providers)

	return &Json{
		options:       options,
		logger:        logger,
		observability: observability,
	}
}
