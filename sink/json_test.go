package sink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/netopsext/netbox-sync/common"
)

func TestJsonSink(t *testing.T) {

	dir := t.TempDir()
	sink := NewJson(JsonOptions{Dir: dir, Checksum: true}, testObservability())
	if sink == nil {
		t.Fatal("expected a sink")
	}

	report := &common.Report{
		Target: common.Target{Name: "dc1/mx80", Host: "192.0.2.1"},
		VLANs:  []common.VLAN{{VID: 100, Name: "ae0.100"}},
		Polled: time.Now().UTC(),
	}

	sink.Process(&testDiscovery{}, &testSinkObject{m: common.SinkMap{"dc1/mx80": report}})

	// slashes in the object name become underscores
	path := filepath.Join(dir, "dc1_mx80.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got common.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Target.Host != "192.0.2.1" || len(got.VLANs) != 1 {
		t.Errorf("unexpected content: %+v", got)
	}
}

func TestJsonSinkNoDir(t *testing.T) {

	if sink := NewJson(JsonOptions{}, testObservability()); sink != nil {
		t.Error("sink without directory should be skipped")
	}
}
