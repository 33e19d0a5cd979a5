package processor

import (
	"encoding/json"
	"regexp"

	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"
	"github.com/itchyny/gojq"
	"github.com/jinzhu/copier"

	"github.com/netopsext/netbox-sync/common"
)

type FilterOptions struct {
	Exclusion string
	JQ        string
	Providers []string
}

// Filter trims reports before they reach the sinks: VLANs and prefixes
// matching the exclusion pattern are removed, and an optional jq
// predicate decides whether a report is kept at all.
type Filter struct {
	options FilterOptions
	logger  sreCommon.Logger
	re      *regexp.Regexp
	query   *gojq.Query
}

func (f *Filter) Name() string {
	return "Filter"
}

func (f *Filter) Providers() []string {
	return f.options.Providers
}

func (f *Filter) exclude(r *common.Report) {

	if f.re == nil {
		return
	}

	vlans := r.VLANs[:0]
	for _, v := range r.VLANs {
		if f.re.MatchString(v.Name) {
			continue
		}
		vlans = append(vlans, v)
	}
	r.VLANs = vlans

	prefixes := r.Prefixes[:0]
	for _, p := range r.Prefixes {
		if f.re.MatchString(p.Prefix) {
			continue
		}
		prefixes = append(prefixes, p)
	}
	r.Prefixes = prefixes
}

// keep evaluates the jq predicate against the JSON form of a report.
// Only an explicit false drops the report.
func (f *Filter) keep(r *common.Report) bool {

	if f.query == nil {
		return true
	}

	data, err := json.Marshal(r)
	if err != nil {
		f.logger.Error("Filter couldn't marshal report: %s", err)
		return true
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		f.logger.Error("Filter couldn't unmarshal report: %s", err)
		return true
	}

	iter := f.query.Run(obj)
	v, ok := iter.Next()
	if !ok {
		return true
	}
	if err, isErr := v.(error); isErr {
		f.logger.Error("Filter jq failed: %s", err)
		return true
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	return true
}

func (f *Filter) Process(d common.Discovery, so common.SinkObject) {

	m := so.Map()
	f.logger.Debug("Filter has to process %d objects from %s...", len(m), d.Name())

	for k, v := range m {

		r, ok := v.(*common.Report)
		if !ok {
			continue
		}

		clone := &common.Report{}
		if err := copier.CopyWithOption(clone, r, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
			f.logger.Error("Filter couldn't copy report %s: %s", k, err)
			continue
		}

		f.exclude(clone)
		if !f.keep(clone) {
			f.logger.Debug("Filter dropped report %s", k)
			delete(m, k)
			continue
		}
		m[k] = clone
	}
}

func NewFilter(options FilterOptions, observability *common.Observability) *Filter {

	logger := observability.Logs()

	if utils.IsEmpty(options.Exclusion) && utils.IsEmpty(options.JQ) {
		logger.Debug("Filter has no exclusion or jq. Skipped")
		return nil
	}

	var re *regexp.Regexp
	if !utils.IsEmpty(options.Exclusion) {
		var err error
		re, err = regexp.Compile(options.Exclusion)
		if err != nil {
			logger.Error("Filter exclusion is invalid: %s", err)
			return nil
		}
	}

	var query *gojq.Query
	if !utils.IsEmpty(options.JQ) {
		var err error
		query, err = gojq.Parse(options.JQ)
		if err != nil {
			logger.Error("Filter jq is invalid: %s", err)
			return nil
		}
	}

	options.Providers = common.RemoveEmptyStrings(options.Providers)

	return &Filter{
		options: options,
		logger:  logger,
		re:      re,
		query:   query,
	}
}
