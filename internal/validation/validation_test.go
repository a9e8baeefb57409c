package validation

import (
	"encoding/json"
	"testing"
)

func decodeErrs(t *testing.T, err error) map[string]string {
	t.Helper()
	js, jerr := ErrorsToJson(err)
	if jerr != nil {
		t.Fatalf("ErrorsToJson() error = %v", jerr)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(js), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return got
}

func TestValidateStructAndErrorsToJson(t *testing.T) {
	type Input struct {
		Name string `validate:"required,max=10" json:"name"`
		URL  string `validate:"omitempty,url"   json:"publishedUrl"`
	}

	tests := []struct {
		name        string
		in          Input
		wantErr     bool
		wantJsonMap map[string]string
	}{
		{
			name:    "success",
			in:      Input{Name: "ig", URL: "https://instagram.com/p/1"},
			wantErr: false,
		},
		{
			name:        "missing name",
			in:          Input{},
			wantErr:     true,
			wantJsonMap: map[string]string{"name": "required"},
		},
		{
			name:        "name too long and bad url",
			in:          Input{Name: "abcdefghijk", URL: "nope"},
			wantErr:     true,
			wantJsonMap: map[string]string{"name": "max", "publishedUrl": "url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			got := decodeErrs(t, err)
			for field, tag := range tt.wantJsonMap {
				if got[field] != tag {
					t.Errorf("field %q: got %q, want %q", field, got[field], tag)
				}
			}
		})
	}
}

func TestDomainEnumValidation(t *testing.T) {
	type Input struct {
		Type    string `validate:"required,asset_type"        json:"type"`
		Status  string `validate:"omitempty,asset_status"     json:"status"`
		Publish string `validate:"omitempty,publish_status"   json:"publishStatus"`
	}

	tests := []struct {
		name       string
		in         Input
		wantErrMap map[string]string
	}{
		{
			name: "all good",
			in:   Input{Type: "reel", Status: "queued", Publish: "publishing"},
		},
		{
			name: "empty optionals are skipped",
			in:   Input{Type: "post"},
		},
		{
			name: "unknown values",
			in:   Input{Type: "story", Status: "archived", Publish: "done"},
			wantErrMap: map[string]string{
				"type":          "asset_type",
				"status":        "asset_status",
				"publishStatus": "publish_status",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != (tt.wantErrMap != nil) {
				t.Fatalf("ValidateStruct() err = %v, want errors %v", err, tt.wantErrMap)
			}
			if err == nil {
				return
			}
			got := decodeErrs(t, err)
			for f, wantTag := range tt.wantErrMap {
				if got[f] != wantTag {
					t.Errorf("field %q: got %q, want %q", f, got[f], wantTag)
				}
			}
		})
	}
}

func TestNestedAndJsonTagFallback(t *testing.T) {
	type Inner struct {
		Foo string `validate:"required" json:"foo"`
	}
	type Outer struct {
		In  *Inner `validate:"required" json:"inner"`
		Bar int    `validate:"required"`
	}

	t.Run("nil nested struct", func(t *testing.T) {
		err := ValidateStruct(Outer{})
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		got := decodeErrs(t, err)
		if got["inner"] != "required" {
			t.Errorf("inner: got %q, want %q", got["inner"], "required")
		}
		if got["Bar"] != "required" {
			t.Errorf("Bar: got %q, want %q", got["Bar"], "required")
		}
	})

	t.Run("missing nested field", func(t *testing.T) {
		err := ValidateStruct(Outer{In: &Inner{}})
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		got := decodeErrs(t, err)
		if got["foo"] != "required" {
			t.Errorf("foo: got %q, want %q", got["foo"], "required")
		}
	})
}
