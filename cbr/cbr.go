// Package cbr fetches the daily reference exchange rates published by the
// Bank of Russia JSON mirror, and feeds them into a rate table.
package cbr

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/date"
)

const defaultBaseURL = "https://www.cbr-xml-daily.ru"

// Rate is one published rate: the value of Nominal units of the foreign
// currency in rubles.
type Rate struct {
	Code    string
	Nominal int64
	Value   decimal.Decimal // rubles per Nominal units
}

// PerUnit returns the value of one unit of the foreign currency in rubles.
func (r Rate) PerUnit() decimal.Decimal {
	if r.Nominal <= 1 {
		return r.Value
	}
	return r.Value.Div(decimal.NewFromInt(r.Nominal))
}

// Client fetches daily reference rates. The zero value is not usable, use
// NewClient.
type Client struct {
	// BaseURL of the rate service, overridable for tests.
	BaseURL string
	// HTTP is the underlying client, daily-cached by default.
	HTTP *http.Client
}

// NewClient returns a client with a daily-expiring disk cache: published
// reference rates never change within a day, so one fetch per day is enough.
func NewClient() *Client {
	return &Client{BaseURL: defaultBaseURL, HTTP: daily()}
}

// Daily returns the reference rates published for a day, most recent
// publication on or before that day. Weekends and holidays have no
// publication of their own.
func (c *Client) Daily(on date.Date) ([]Rate, error) {
	addr := fmt.Sprintf("%s/archive/%04d/%02d/%02d/daily_json.js", c.BaseURL, on.Year(), on.Month(), on.Day())
	if on == date.Today() {
		addr = c.BaseURL + "/daily_json.js"
	}
	var jobj any
	if err := jwget(c.HTTP, addr, &jobj); err != nil {
		return nil, fmt.Errorf("fetching rates of %s: %w", on, err)
	}

	jval, err := jsonpath.Get("$.Valute", jobj)
	if err != nil {
		return nil, fmt.Errorf("parsing rates of %s: %w", on, err)
	}
	valutes, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parsing rates of %s: Valute is not an object", on)
	}

	var rates []Rate
	for code, v := range valutes {
		rate, err := parseRate(code, v)
		if err != nil {
			log.Printf("skipping rate %q of %s: %v", code, on, err)
			continue
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// parseRate reads one Valute entry. Values come as JSON numbers.
func parseRate(code string, v any) (Rate, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Rate{}, fmt.Errorf("not an object")
	}
	value, ok := obj["Value"].(float64)
	if !ok {
		return Rate{}, fmt.Errorf("Value is not a number")
	}
	nominal, ok := obj["Nominal"].(float64)
	if !ok || nominal == 0 {
		nominal = 1
	}
	return Rate{Code: code, Nominal: int64(nominal), Value: decimal.NewFromFloat(value)}, nil
}

// Fetch adds the published rates of each day of the range to the table, as
// foreign-currency to RUB pairs. Days without a publication are skipped with
// a log line, they resolve through the table's as-of lookup.
func (c *Client) Fetch(table *brokerage.RateTable, r date.Range, codes ...string) error {
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code] = true
	}
	for _, on := range r.Dates() {
		rates, err := c.Daily(on)
		if err != nil {
			log.Printf("no rates for %s: %v", on, err)
			continue
		}
		for _, rate := range rates {
			if len(wanted) > 0 && !wanted[rate.Code] {
				continue
			}
			table.Add(rate.Code, "RUB", on, rate.PerUnit())
		}
	}
	return nil
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// returns a client with a cache all with daily expire
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
