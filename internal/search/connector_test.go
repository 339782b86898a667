// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papercast/pkg/types"
)

// fakeConnector returns canned records or an error.
type fakeConnector struct {
	name    types.Source
	records []RawRecord
	err     error
	delay   time.Duration
	panics  bool
	queries []string
}

func (f *fakeConnector) Name() types.Source { return f.name }

func (f *fakeConnector) Search(_ context.Context, query string) ([]RawRecord, error) {
	f.queries = append(f.queries, query)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panics {
		panic("connector exploded")
	}
	return f.records, f.err
}

// fakeContent is a ContentSearcher fake.
type fakeContent struct {
	fakeConnector
	similar []string
}

func (f *fakeContent) FindSimilar(_ context.Context, url string) ([]RawRecord, error) {
	f.similar = append(f.similar, url)
	return f.records, f.err
}

func TestInvokeSuccess(t *testing.T) {
	c := &fakeConnector{name: types.SourceArxiv, records: []RawRecord{{Title: "A"}}}

	o := Invoke(context.Background(), c, "q")
	assert.True(t, o.OK())
	assert.Equal(t, types.SourceArxiv, o.Source)
	assert.Len(t, o.Records, 1)
	assert.Equal(t, []string{"q"}, c.queries)
}

func TestInvokeNilRecordsBecomeEmpty(t *testing.T) {
	o := Invoke(context.Background(), &fakeConnector{name: types.SourceArxiv}, "q")
	require.True(t, o.OK())
	assert.NotNil(t, o.Records)
	assert.Empty(t, o.Records)
}

func TestInvokeUpstreamError(t *testing.T) {
	c := &fakeConnector{name: types.SourceSemanticScholar, err: errors.New("HTTP 500")}

	o := Invoke(context.Background(), c, "q")
	require.False(t, o.OK())
	assert.Nil(t, o.Records)
	assert.Equal(t, KindUpstream, o.Err.Kind)
	assert.Equal(t, "Semantic Scholar search failed: HTTP 500", o.Err.Message)
	assert.NotErrorIs(t, o.Err, ErrNotConfigured)
}

func TestInvokeRecoversPanic(t *testing.T) {
	c := &fakeConnector{name: types.SourceArxiv, panics: true}

	o := Invoke(context.Background(), c, "q")
	require.False(t, o.OK())
	assert.Contains(t, o.Err.Message, "arXiv search failed")
	assert.Contains(t, o.Err.Message, "connector exploded")
}

func TestInvokeSimilarPrefix(t *testing.T) {
	c := &fakeContent{fakeConnector: fakeConnector{name: types.SourceExa, err: errors.New("timeout")}}

	o := InvokeSimilar(context.Background(), c, "https://example.com/paper")
	require.False(t, o.OK())
	assert.Equal(t, "Exa similar search failed: timeout", o.Err.Message)
	assert.Equal(t, []string{"https://example.com/paper"}, c.similar)
}

func TestConnectorErrorJSON(t *testing.T) {
	e := &ConnectorError{Source: types.SourceExa, Kind: KindNotConfigured, Message: "Exa API key not configured"}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Exa API key not configured"}`, string(data))
	assert.ErrorIs(t, e, ErrNotConfigured)
	assert.Equal(t, "exa: Exa API key not configured", e.Error())
}
