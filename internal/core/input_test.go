package core

import (
	"reflect"
	"testing"
)

func TestKeysButtons(t *testing.T) {
	tests := []struct {
		name     string
		keys     Keys
		expected []Keys
	}{
		{"none", KeyNone, nil},
		{"mouse left", KeyM1, []Keys{KeyM1}},
		{"keyboard K1 implies no extra M1", KeyK1, []Keys{KeyK1}},
		{"both keyboard keys", KeyK1 | KeyK2, []Keys{KeyK1, KeyK2}},
		{"K1 and M2", KeyK1 | KeyM2, []Keys{KeyK1, KeyM2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.keys.Buttons(); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Buttons() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestKeysNewPresses(t *testing.T) {
	tests := []struct {
		name     string
		prev     Keys
		cur      Keys
		expected []Keys
	}{
		{"press from idle", KeyNone, KeyK1, []Keys{KeyK1}},
		{"held key is not a new press", KeyK1, KeyK1, nil},
		{"release is not a press", KeyK1, KeyNone, nil},
		{"second key while holding", KeyK1, KeyK1 | KeyK2, []Keys{KeyK2}},
		{"swap keys", KeyK1, KeyK2, []Keys{KeyK2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cur.NewPresses(tc.prev); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("NewPresses() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestKeysString(t *testing.T) {
	if got := (KeyK1 | KeyM2).String(); got != "K1+M2" {
		t.Errorf("String() = %q, expected %q", got, "K1+M2")
	}
	if got := KeyNone.String(); got != "None" {
		t.Errorf("String() = %q, expected %q", got, "None")
	}
}
