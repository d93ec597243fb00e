package constants

const (
	AppStorefront   = "storefront"
	AppNotification = "storefront-notification"
)

const (
	AudienceUser = "user"
	IssuerToken  = AppStorefront
)

// ChannelOrderCreated carries order confirmations from checkout to the
// notification listener.
const ChannelOrderCreated = "orders:created"
