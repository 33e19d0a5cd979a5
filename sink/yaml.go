package sink

import (
	"fmt"
	"path/filepath"
	"strings"

	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"
	"gopkg.in/yaml.v3"

	"github.com/netopsext/netbox-sync/common"
)

type YamlOptions struct {
	Dir       string
	Checksum  bool
	Providers []string
}

type Yaml struct {
	options       YamlOptions
	logger        sreCommon.Logger
	observability *common.Observability
}

func (y *Yaml) Name() string {
	return "Yaml"
}

func (y *Yaml) Providers() []string {
	return y.options.Providers
}

func (y *Yaml) Process(d common.Discovery, so common.SinkObject) {

	m := so.Map()
	y.logger.Debug("Yaml has to process %d objects from %s...", len(m), d.Name())

	for k, v := range m {

		data, err := yaml.Marshal(v)
		if err != nil {
			y.logger.Error("Yaml couldn't marshal %s: %s", k, err)
			continue
		}

		name := strings.ReplaceAll(k, "/", "_")
		path := filepath.Join(y.options.Dir, fmt.Sprintf("%s.yaml", name))

		exists, err := common.FileWriteWithCheckSum(path, data, y.options.Checksum)
		if err != nil {
			y.logger.Error("Yaml couldn't be written to %s: %s", path, err)
			continue
		}
		if exists {
			y.logger.Debug("Yaml exists in %s", path)
			continue
		}
		y.logger.Debug("Yaml created/updated in %s", path)
	}
}

func NewYaml(options YamlOptions, observability *common.Observability) *Yaml {

	logger := observability.Logs()

	if utils.IsEmpty(options.Dir) {
		logger.Debug("Yaml has no directory. Skipped")
		return nil
	}

	options.Providers = common.RemoveEmptyStrings(options.Providers)

	return &Yaml{
		options:       options,
		logger:        logger,
		observability: observability,
	}
}
