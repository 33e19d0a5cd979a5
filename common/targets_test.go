package common

import (
	"testing"
)

func TestParseTargets(t *testing.T) {

	targets := ParseTargets("mx80=192.0.2.1:1161, edge2=192.0.2.2, 192.0.2.3,")
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}

	if targets[0].Name != "mx80" || targets[0].Host != "192.0.2.1" || targets[0].Port != 1161 {
		t.Errorf("unexpected first target: %+v", targets[0])
	}
	if targets[1].Name != "edge2" || targets[1].Host != "192.0.2.2" || targets[1].Port != 0 {
		t.Errorf("unexpected second target: %+v", targets[1])
	}
	if targets[2].Name != "192.0.2.3" || targets[2].Host != "192.0.2.3" {
		t.Errorf("unexpected third target: %+v", targets[2])
	}
}

func TestParseTargetsEmpty(t *testing.T) {

	if targets := ParseTargets(""); len(targets) != 0 {
		t.Errorf("expected no targets, got %d", len(targets))
	}
	if targets := ParseTargets(" , ,"); len(targets) != 0 {
		t.Errorf("expected no targets, got %d", len(targets))
	}
}

func TestMergeTargetDefaults(t *testing.T) {

	def := Target{
		Port:      161,
		Community: "public",
		Version:   "2c",
		Labels:    Labels{"site": "dc1"},
	}

	merged := MergeTargetDefaults(Target{Host: "192.0.2.1"}, def)
	if merged.Name != "192.0.2.1" {
		t.Errorf("expected name fallback to host, got %s", merged.Name)
	}
	if merged.Port != 161 || merged.Community != "public" || merged.Version != "2c" {
		t.Errorf("defaults not applied: %+v", merged)
	}
	if merged.Labels["site"] != "dc1" {
		t.Errorf("default labels not applied: %+v", merged.Labels)
	}

	merged = MergeTargetDefaults(Target{
		Name:      "mx80",
		Host:      "192.0.2.2",
		Port:      1161,
		Community: "secret",
		Labels:    Labels{"site": "dc2"},
	}, def)
	if merged.Port != 1161 || merged.Community != "secret" {
		t.Errorf("explicit values overridden: %+v", merged)
	}
	if merged.Labels["site"] != "dc2" {
		t.Errorf("target labels should win: %+v", merged.Labels)
	}
}

func TestTargetAddress(t *testing.T) {

	if a := (Target{Host: "192.0.2.1"}).Address(); a != "192.0.2.1:161" {
		t.Errorf("expected default port, got %s", a)
	}
	if a := (Target{Host: "192.0.2.1", Port: 1161}).Address(); a != "192.0.2.1:1161" {
		t.Errorf("expected explicit port, got %s", a)
	}
}
