/*
Package executor handles HTTP request execution against the item API.

# Overview

A Client sends exactly one request per call:
  - Content-Type is always application/json
  - No retries
  - No timeout unless WithTimeout is given
  - Optional TLS settings (custom CA, client certificate, insecure mode)

# Error Handling

Execute separates two failure classes:
  - Requests that cannot be built (bad method or URL) return an error
  - Transport failures (DNS, refused connection, TLS, timeout) return a
    RequestResult with Status set to types.StatusNetworkError and Error set

Callers never need to inspect both: a non-nil error means nothing was sent.

# Example Usage

	client, err := executor.NewClient(executor.WithTimeout(10 * time.Second))
	if err != nil {
		return err
	}

	result, err := client.Execute(ctx, &types.HttpRequest{
		Method: "POST",
		URL:    "https://api.example.com/dev/items",
		Body:   `{"name": "Widget"}`,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Status: %d\n", result.Status)

# Thread Safety

Execute is safe to call concurrently; the underlying http.Client is shared.
*/
package executor
