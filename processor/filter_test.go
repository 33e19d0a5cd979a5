package processor

import (
	"testing"

	sreCommon "github.com/devopsext/sre/common"

	"github.com/netopsext/netbox-sync/common"
)

type testDiscovery struct{}

func (d *testDiscovery) Discover()      {}
func (d *testDiscovery) Name() string   { return "Test" }
func (d *testDiscovery) Source() string { return "" }

type testSinkObject struct {
	m common.SinkMap
}

func (so *testSinkObject) Map() common.SinkMap  { return so.m }
func (so *testSinkObject) Options() interface{} { return nil }

func testObservability() *common.Observability {
	return common.NewObservability(sreCommon.NewLogs(), sreCommon.NewMetrics())
}

func testReport(name string, vlans []common.VLAN, prefixes []common.Prefix) *common.Report {
	return &common.Report{
		Target:   common.Target{Name: name, Host: "192.0.2.1"},
		VLANs:    vlans,
		Prefixes: prefixes,
	}
}

func TestFilterExclusion(t *testing.T) {

	f := NewFilter(FilterOptions{Exclusion: `^ae0\.99\d$|^10\.99\.`}, testObservability())
	if f == nil {
		t.Fatal("expected a filter")
	}

	orig := testReport("mx80",
		[]common.VLAN{{VID: 990, Name: "ae0.990"}, {VID: 100, Name: "ae0.100"}},
		[]common.Prefix{{Prefix: "10.99.0.0/24"}, {Prefix: "10.1.0.0/24"}},
	)
	m := common.SinkMap{"mx80": orig}

	f.Process(&testDiscovery{}, &testSinkObject{m: m})

	r, ok := m["mx80"].(*common.Report)
	if !ok {
		t.Fatal("report dropped unexpectedly")
	}
	if len(r.VLANs) != 1 || r.VLANs[0].Name != "ae0.100" {
		t.Errorf("unexpected vlans: %+v", r.VLANs)
	}
	if len(r.Prefixes) != 1 || r.Prefixes[0].Prefix != "10.1.0.0/24" {
		t.Errorf("unexpected prefixes: %+v", r.Prefixes)
	}

	// the original report is untouched
	if len(orig.VLANs) != 2 || len(orig.Prefixes) != 2 {
		t.Errorf("original report was modified: %+v", orig)
	}
}

func TestFilterJQ(t *testing.T) {

	f := NewFilter(FilterOptions{JQ: `(.vlans | length) > 0`}, testObservability())
	if f == nil {
		t.Fatal("expected a filter")
	}

	m := common.SinkMap{
		"with":    testReport("with", []common.VLAN{{VID: 100, Name: "ae0.100"}}, nil),
		"without": testReport("without", nil, nil),
	}

	f.Process(&testDiscovery{}, &testSinkObject{m: m})

	if _, ok := m["with"]; !ok {
		t.Error("report with vlans should be kept")
	}
	if _, ok := m["without"]; ok {
		t.Error("report without vlans should be dropped")
	}
}

func TestFilterSkipped(t *testing.T) {

	if f := NewFilter(FilterOptions{}, testObservability()); f != nil {
		t.Error("filter without options should be skipped")
	}
	if f := NewFilter(FilterOptions{Exclusion: "["}, testObservability()); f != nil {
		t.Error("filter with broken pattern should be skipped")
	}
	if f := NewFilter(FilterOptions{JQ: ".foo |"}, testObservability()); f != nil {
		t.Error("filter with broken jq should be skipped")
	}
}
