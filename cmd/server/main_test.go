package main

import "testing"

func TestResolveRedisAddr(t *testing.T) {
	cases := []struct {
		env   string
		addr  string
		probe bool
	}{
		{"", "localhost:6379", true},
		{"none", "", false},
		{"redis.internal:6380", "redis.internal:6380", true},
	}
	for _, tc := range cases {
		addr, probe := resolveRedisAddr(tc.env)
		if addr != tc.addr || probe != tc.probe {
			t.Errorf("resolveRedisAddr(%q) = (%q, %v), want (%q, %v)", tc.env, addr, probe, tc.addr, tc.probe)
		}
	}
}
