package cache

// KEY_PRODUCTS is the cache key for a single product, formatted with the
// product id.
const KEY_PRODUCTS = "products:%s"
