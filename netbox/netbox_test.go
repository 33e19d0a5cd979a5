package netbox

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(Options{
		URL:    server.URL,
		Token:  "secret-token",
		SiteID: 1,
	})
	return server, client
}

func TestVLANExists(t *testing.T) {

	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {

		if got := r.Header.Get("Authorization"); got != "Token secret-token" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		if r.URL.Path != "/api/ipam/vlans/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("vid") != "1000" || q.Get("site_id") != "1" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"count":   1,
			"results": []map[string]interface{}{{"id": 7, "vid": 1000, "name": "ae0.1000"}},
		})
	})

	exists, err := client.VLANExists(1000)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("expected vlan to exist")
	}
}

func TestCreateVLAN(t *testing.T) {

	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {

		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		if payload["vid"] != float64(1000) || payload["name"] != "ae0.1000" || payload["site"] != float64(1) {
			t.Errorf("unexpected payload: %v", payload)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 7, "vid": 1000, "name": "ae0.1000"})
	})

	v, err := client.CreateVLAN(1000, "ae0.1000")
	if err != nil {
		t.Fatal(err)
	}
	if v.ID != 7 || v.VID != 1000 {
		t.Errorf("unexpected vlan: %+v", v)
	}
}

func TestCreateVLANError(t *testing.T) {

	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"vid": ["duplicate"]}`))
	})

	if _, err := client.CreateVLAN(1000, "ae0.1000"); err == nil {
		t.Error("expected an error for status 400")
	}
}

func TestPrefixExists(t *testing.T) {

	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {

		if r.URL.Path != "/api/ipam/prefixes/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("prefix"); got != "10.0.12.0/24" {
			t.Errorf("unexpected prefix query: %s", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"count": 0, "results": []interface{}{}})
	})

	exists, err := client.PrefixExists("10.0.12.0/24")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("expected prefix to be missing")
	}
}

func TestCreatePrefix(t *testing.T) {

	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		if payload["prefix"] != "10.0.12.0/24" || payload["site"] != float64(1) {
			t.Errorf("unexpected payload: %v", payload)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 3, "prefix": "10.0.12.0/24"})
	})

	p, err := client.CreatePrefix("10.0.12.0/24")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 3 || p.Prefix != "10.0.12.0/24" {
		t.Errorf("unexpected prefix: %+v", p)
	}
}

func TestGetDevices(t *testing.T) {

	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {

		if r.URL.Path != "/api/dcim/devices/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("status") != "active" || q.Get("has_primary_ip") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("role") != "router" || q.Get("site") != "dc1" {
			t.Errorf("unexpected filters: %s", r.URL.RawQuery)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"results": []map[string]interface{}{{
				"id":   1,
				"name": "mx80",
				"primary_ip": map[string]interface{}{
					"id": 2, "address": "192.0.2.1/24",
				},
			}},
		})
	})

	devices, err := client.GetDevices(DeviceListOptions{Role: "router", Site: "dc1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}
	if devices[0].Name != "mx80" || devices[0].PrimaryIP.Address != "192.0.2.1/24" {
		t.Errorf("unexpected device: %+v", devices[0])
	}
}
