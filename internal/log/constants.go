package log

const (
	KeyAppName       = "app"
	KeyAttempt       = "attempt"
	KeyBody          = "body"
	KeyCacheKey      = "cacheKey"
	KeyCart          = "cart"
	KeyCartID        = "cartId"
	KeyCartItems     = "cartItems"
	KeyCategory      = "category"
	KeyChannel       = "channel"
	KeyConfig        = "config"
	KeyDbURL         = "dbUrl"
	KeyEmail         = "email"
	KeyHeader        = "header"
	KeyJsonCache     = "jsonCache"
	KeyOrder         = "order"
	KeyOrderID       = "orderId"
	KeyOrderItems    = "orderItems"
	KeyPathValues    = "pathValues"
	KeyProcess       = "process"
	KeyProduct       = "product"
	KeyProductID     = "productId"
	KeyProducts      = "products"
	KeyQuantity      = "quantity"
	KeyRequest       = "request"
	KeyRequestHost   = "host"
	KeyRequestID     = "requestId"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeySpanID        = "spanId"
	KeyTag           = "tag"
	KeyToken         = "token"
	KeyTotal         = "total"
	KeyTraceID       = "traceId"
	KeyUserID        = "userId"
)
