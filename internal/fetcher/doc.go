// Package fetcher downloads quarterly trade releases from the statistics
// portal.
//
// Release URLs are generated from a template with {quarter} and {year}
// placeholders. Files already present in the archive are never downloaded
// again, and a quarter that is not yet published (404) is logged and
// skipped. Requests are paced with a token bucket and retried with
// exponential backoff on transport errors, 429 and 5xx responses.
package fetcher
