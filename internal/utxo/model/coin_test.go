package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		name    string
		want    Network
		wantErr bool
	}{
		{name: "mainnet", want: Mainnet},
		{name: "main", want: Mainnet},
		{name: " Bitcoin ", want: Mainnet},
		{name: "testnet3", want: Testnet},
		{name: "test", want: Testnet},
		{name: "regtest", want: Regtest},
		{name: "SIGNET", want: Signet},
		{name: "litecoin", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNetwork(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedNetwork)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
