package gateway

import (
	"net/url"
	"strconv"
	"strings"
)

// The JazzCash sandbox contract: the customer is redirected to the sandbox
// endpoint with amount, bill reference, return URL and store credentials as
// query parameters, and the gateway later calls back on the webhook with a
// response code and the bill reference. Response code "000" is success.
const (
	SandboxURL      = "https://sandbox.jazzcash.com.pk/PayThroughAPI/"
	ResponseSuccess = "000"

	// Fixed slot price in the gateway's currency units.
	DefaultAmount = 1200
)

// Client builds redirect URLs for the sandbox gateway. It is the only place
// the store credentials live; they go on the wire because the sandbox
// contract demands it, but they are never logged or returned elsewhere.
type Client struct {
	storeID   string
	password  string
	returnURL string
}

func New(storeID, password, returnURL string) *Client {
	return &Client{
		storeID:   storeID,
		password:  password,
		returnURL: returnURL,
	}
}

// Configured reports whether the store credentials are present. When they
// are not, the pay path degrades to a 501.
func (c *Client) Configured() bool {
	return c.storeID != "" && c.password != ""
}

// RedirectURL builds the sandbox payment URL for a booking. billRef is the
// booking id; the webhook echoes it back as the bill reference.
func (c *Client) RedirectURL(amount int, billRef string) string {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(amount))
	q.Set("bill_reference", billRef)
	q.Set("return_url", strings.TrimRight(c.returnURL, "/")+"/success")
	q.Set("credentials", c.storeID+":"+c.password)
	return SandboxURL + "?" + q.Encode()
}
