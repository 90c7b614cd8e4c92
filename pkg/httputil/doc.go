// Package httputil provides HTTP client utilities shared by remote-service
// clients, currently retry with exponential backoff.
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}  // Network errors retry
//	    }
//	    if resp.StatusCode >= 500 {
//	        return &httputil.RetryableError{Err: errServer}  // 5xx retries
//	    }
//	    return processResponse(resp)
//	})
//
// Only errors wrapped in [RetryableError] trigger retries; everything else
// returns immediately. The delay doubles after each failed attempt.
package httputil
