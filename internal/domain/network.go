package domain

// Network identifies the Hedera network a record belongs to.
type Network string

const (
	NetworkMainnet    Network = "mainnet"
	NetworkTestnet    Network = "testnet"
	NetworkPreviewnet Network = "previewnet"
	NetworkLocalnet   Network = "localnet"
)

// String returns the string representation of Network.
func (n Network) String() string {
	return string(n)
}

// IsValid checks if the network is a known value.
func (n Network) IsValid() bool {
	switch n {
	case NetworkMainnet, NetworkTestnet, NetworkPreviewnet, NetworkLocalnet:
		return true
	}
	return false
}
