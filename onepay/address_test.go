package onepay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAddress(t *testing.T) {
	for _, tc := range []struct {
		address string
		valid   bool
	}{
		{"0x02d5fae7ffa927ebed2324c0f46ceb2edfc679f2", true},
		{"0x02D5FAE7FFA927EBED2324C0F46CEB2EDFC679F2", true},
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false}, // bad checksum
		{"02d5fae7ffa927ebed2324c0f46ceb2edfc679f2", false},
		{"0X02d5fae7ffa927ebed2324c0f46ceb2edfc679f2", false},
		{"0x02d5fae7ffa927ebed2324c0f46ceb2edfc679f", false},
		{"0x02d5fae7ffa927ebed2324c0f46ceb2edfc679f2aa", false},
		{"0x02d5fae7ffa927ebed2324c0f46ceb2edfc679zz", false},
		{"", false},
		{"0x", false},
	} {
		assert.Equal(t, tc.valid, IsAddress(tc.address), tc.address)
	}
}
