package model

import (
	"encoding/json"
	"testing"
)

func TestPlaceholderEmployee(t *testing.T) {
	e := PlaceholderEmployee()

	if !e.IsPlaceholder() {
		t.Fatal("expected placeholder to report itself as placeholder")
	}
	if e.ID != 0 || e.Name != "Сотрудник" || !e.IsActive {
		t.Errorf("unexpected placeholder: %+v", e)
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"id":0,"name":"Сотрудник","is_active":true,"clearance_level":null,"cluster":null,"department":null,"division":null,"position":null,"profile_picture":null}`
	if string(data) != want {
		t.Errorf("unexpected json:\n got %s\nwant %s", data, want)
	}
}

func TestIsPlaceholder_RealProfile(t *testing.T) {
	e := &Employee{ID: 0, Name: PlaceholderEmployeeName, IsActive: true, Cluster: &Cluster{ID: 1, Name: "North"}}
	if e.IsPlaceholder() {
		t.Error("profile with a relation must not be treated as placeholder")
	}

	var nilEmployee *Employee
	if nilEmployee.IsPlaceholder() {
		t.Error("nil profile must not be treated as placeholder")
	}
}
