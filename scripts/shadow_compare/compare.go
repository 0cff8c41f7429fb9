package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"
)

type outcome string

const (
	outcomeMatch outcome = "OK"
	outcomeDiff  outcome = "DIFF"
	outcomeError outcome = "ERROR"
)

// response is what one side answered for a target.
type response struct {
	Status  int
	Body    []byte
	Elapsed time.Duration
}

type result struct {
	Target    target
	Go        response
	Legacy    response
	BodyMatch bool
	Err       error
}

func (r result) outcome() outcome {
	switch {
	case r.Err != nil:
		return outcomeError
	case r.Go.Status != r.Legacy.Status, !r.BodyMatch:
		return outcomeDiff
	}
	return outcomeMatch
}

// comparer replays targets against both services.
type comparer struct {
	client     *http.Client
	goBase     string
	legacyBase string
	// unwrap compares only the data member of Go response envelopes.
	unwrap bool
}

func (c *comparer) compare(ctx context.Context, t target) result {
	res := result{Target: t}
	var err error
	if res.Go, err = c.fetch(ctx, c.goBase, t.Method, t.Path); err != nil {
		res.Err = fmt.Errorf("go: %w", err)
		return res
	}
	if res.Legacy, err = c.fetch(ctx, c.legacyBase, t.Method, t.legacyPath()); err != nil {
		res.Err = fmt.Errorf("legacy: %w", err)
		return res
	}
	res.BodyMatch = c.sameBody(res)
	return res
}

func (c *comparer) fetch(ctx context.Context, base, method, path string) (response, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	url := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read body: %w", err)
	}
	return response{Status: resp.StatusCode, Body: body, Elapsed: time.Since(start)}, nil
}

// sameBody reports whether both bodies carry the same document once the Go
// envelope is stripped and member names are folded.
func (c *comparer) sameBody(res result) bool {
	goBody := res.Go.Body
	if c.unwrap {
		goBody = unwrapData(goBody)
	}
	return equivalentJSON(goBody, res.Legacy.Body)
}

// unwrapData extracts the data member of a response envelope. Bodies that are
// not envelopes are returned unchanged.
func unwrapData(body []byte) []byte {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}
	if data, ok := envelope["data"]; ok {
		return data
	}
	return body
}

func equivalentJSON(a, b []byte) bool {
	var left, right interface{}
	if err := json.Unmarshal(a, &left); err != nil {
		return strings.TrimSpace(string(a)) == strings.TrimSpace(string(b))
	}
	if err := json.Unmarshal(b, &right); err != nil {
		return false
	}
	return reflect.DeepEqual(foldKeys(left), foldKeys(right))
}

// foldKeys rewrites every object member name so that kana_name and kanaName
// compare equal.
func foldKeys(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		folded := make(map[string]interface{}, len(val))
		for k, member := range val {
			folded[strings.ToLower(strings.ReplaceAll(k, "_", ""))] = foldKeys(member)
		}
		return folded
	case []interface{}:
		for i := range val {
			val[i] = foldKeys(val[i])
		}
		return val
	}
	return v
}
