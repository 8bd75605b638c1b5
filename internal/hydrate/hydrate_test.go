package hydrate

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type databaseSettings struct {
	Host string            `json:"host"`
	Port int               `json:"port"`
	Tags []string          `json:"tags,omitempty"`
	Opts map[string]string `json:"opts,omitempty"`
}

func (s databaseSettings) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func TestDecoderCases(t *testing.T) {
	cases := []struct {
		name      string
		input     map[string]any
		options   []DecoderOption[databaseSettings]
		expect    databaseSettings
		expectErr string
	}{
		{
			name:   "plain",
			input:  map[string]any{"host": "db", "port": 5432, "tags": []any{"primary"}},
			expect: databaseSettings{Host: "db", Port: 5432, Tags: []string{"primary"}},
		},
		{
			name:      "unknown fields rejected",
			input:     map[string]any{"host": "db", "port": 1, "extra": true},
			options:   []DecoderOption[databaseSettings]{WithDisallowUnknownFields[databaseSettings]()},
			expectErr: `unknown field "extra"`,
		},
		{
			name:  "pre hook splits address",
			input: map[string]any{"address": "db:5432"},
			options: []DecoderOption[databaseSettings]{
				WithPreHook[databaseSettings](func(_ Context, payload map[string]any) (map[string]any, error) {
					address, _ := payload["address"].(string)
					host, _, _ := strings.Cut(address, ":")
					return map[string]any{"host": host, "port": 5432}, nil
				}),
			},
			expect: databaseSettings{Host: "db", Port: 5432},
		},
		{
			name:  "post hook tags",
			input: map[string]any{"host": "db", "port": 1},
			options: []DecoderOption[databaseSettings]{
				WithPostHook[databaseSettings](func(ctx Context, s *databaseSettings) error {
					s.Tags = append(s.Tags, ctx.Name)
					return nil
				}),
			},
			expect: databaseSettings{Host: "db", Port: 1, Tags: []string{"Database"}},
		},
		{
			name:      "validation",
			input:     map[string]any{"host": "db"},
			options:   []DecoderOption[databaseSettings]{WithValidation[databaseSettings]()},
			expectErr: "port must be positive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoder := NewDecoder(tc.options...)
			result, err := decoder.Decode(Context{Name: "Database", Kind: "raw"}, tc.input)

			if tc.expectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.expectErr)
				}
				if !strings.Contains(err.Error(), tc.expectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !reflect.DeepEqual(tc.expect, result) {
				t.Fatalf("decoded value mismatch:\nwant: %#v\n got: %#v", tc.expect, result)
			}
		})
	}
}

func TestDecoderRejectsNilPayload(t *testing.T) {
	_, err := NewDecoder[databaseSettings]().Decode(Context{Name: "Database"}, nil)
	if err == nil || !strings.Contains(err.Error(), "payload is nil") {
		t.Fatalf("expected nil payload error, got %v", err)
	}
}

func TestDecoderDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"host": "db", "port": 1}
	decoder := NewDecoder(WithPreHook[databaseSettings](func(_ Context, payload map[string]any) (map[string]any, error) {
		payload["host"] = "changed"
		return payload, nil
	}))
	if _, err := decoder.Decode(Context{Name: "Database"}, input); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if input["host"] != "db" {
		t.Fatalf("expected caller payload untouched, got %v", input["host"])
	}
}
