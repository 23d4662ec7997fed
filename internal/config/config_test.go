package config

import "testing"

func TestGetReturnsFallbackWhenUnset(t *testing.T) {
	t.Setenv("VRP_CONFIG_TEST_UNSET", "")
	if got := Get("VRP_CONFIG_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Get() = %q, want %q", got, "fallback")
	}
}

func TestGetReturnsEnvValueWhenSet(t *testing.T) {
	t.Setenv("VRP_CONFIG_TEST_SET", "8081")
	if got := Get("VRP_CONFIG_TEST_SET", "8080"); got != "8081" {
		t.Errorf("Get() = %q, want %q", got, "8081")
	}
}

func TestGetInt64ParsesValidValue(t *testing.T) {
	t.Setenv("VRP_CONFIG_TEST_INT", "42")
	if got := GetInt64("VRP_CONFIG_TEST_INT", 0); got != 42 {
		t.Errorf("GetInt64() = %d, want 42", got)
	}
}

func TestGetInt64FallsBackOnUnparsableValue(t *testing.T) {
	t.Setenv("VRP_CONFIG_TEST_BAD_INT", "not-a-number")
	if got := GetInt64("VRP_CONFIG_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetInt64() = %d, want fallback 7", got)
	}
}

func TestGetInt32ParsesValidValue(t *testing.T) {
	t.Setenv("VRP_CONFIG_TEST_INT32", "16")
	if got := GetInt32("VRP_CONFIG_TEST_INT32", 0); got != 16 {
		t.Errorf("GetInt32() = %d, want 16", got)
	}
}
