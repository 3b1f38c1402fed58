package contact

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestValidateForm(t *testing.T) {
	valid := Form{Name: " Ana ", Email: "ana@example.com", Message: "Me interesa"}

	got, err := ValidateForm(valid)
	if err != nil {
		t.Fatalf("ValidateForm() error = %v", err)
	}
	if got.Name != "Ana" {
		t.Errorf("name not trimmed: %q", got.Name)
	}

	tests := []struct {
		name    string
		mutate  func(*Form)
		wantMsg string
	}{
		{"missing name", func(f *Form) { f.Name = "  " }, "name is required"},
		{"missing email", func(f *Form) { f.Email = "" }, "email is required"},
		{"bad email", func(f *Form) { f.Email = "ana-at-example" }, "not a valid address"},
		{"long phone", func(f *Form) { f.Phone = strings.Repeat("1", MaxPhoneLength+1) }, "phone exceeds"},
		{"missing message", func(f *Form) { f.Message = "" }, "message is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			_, err := ValidateForm(f)
			if !errors.Is(err, ErrInvalidForm) {
				t.Fatalf("ValidateForm() error = %v, want ErrInvalidForm", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	s := New(Form{Name: "Ana", Email: "ana@example.com", Message: "Hola"}, "prop-1", "Villa", now)

	if !strings.HasPrefix(s.ID, "sub-") {
		t.Errorf("ID = %q", s.ID)
	}
	if s.SubmittedAt != "2026-03-01T08:30:00.000Z" {
		t.Errorf("SubmittedAt = %q", s.SubmittedAt)
	}
	if s.PropertyID != "prop-1" || s.PropertyName != "Villa" {
		t.Errorf("property fields = %q/%q", s.PropertyID, s.PropertyName)
	}
}

func TestForProperty(t *testing.T) {
	all := []Submission{
		{ID: "1", PropertyID: "a"},
		{ID: "2", PropertyID: "b"},
		{ID: "3", PropertyID: "a"},
	}

	got := ForProperty(all, "a")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("ForProperty() = %+v", got)
	}
	if got := ForProperty(all, "z"); got == nil || len(got) != 0 {
		t.Errorf("ForProperty() for unknown id = %#v, want empty slice", got)
	}
}

func TestList_RoundTrip(t *testing.T) {
	subs := []Submission{New(Form{Name: "Ana", Email: "a@b.es", Phone: "600", Message: "Hola"}, "p", "P", time.Now())}

	encoded, err := EncodeList(subs)
	if err != nil {
		t.Fatalf("EncodeList() error = %v", err)
	}
	if !strings.Contains(encoded, `"propertyId":"p"`) || !strings.Contains(encoded, `"email":"a@b.es"`) {
		t.Errorf("unexpected stored form: %s", encoded)
	}

	decoded, err := DecodeList([]byte(encoded))
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, subs) {
		t.Error("round trip mismatch")
	}

	if empty, _ := EncodeList(nil); empty != "[]" {
		t.Errorf("EncodeList(nil) = %q", empty)
	}
	if _, err := DecodeList([]byte("{")); err == nil {
		t.Error("DecodeList() accepted malformed JSON")
	}
}
