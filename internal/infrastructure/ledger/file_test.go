package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"offerwatch/internal/domain"
	"offerwatch/pkg/errcodes"
)

func TestFileRoundTrip(t *testing.T) {
	rq := require.New(t)

	source := `{
		"products": [
			{
				"name": "gadget",
				"link": "https://www.amazon.com/dp/B0TESTASIN",
				"expected_price": 25,
				"note": "unknown fields survive"
			},
			{
				"name": "widget",
				"link": "https://www.amazon.com/dp/B0OTHERASIN",
				"expected_price": "80",
				"ship_from": "WidgetWorks",
				"sold_by": "WidgetWorks Retail",
				"actual_price": 74,
				"stop": true
			}
		]
	}`

	path := filepath.Join(t.TempDir(), "products.json")
	rq.NoError(os.WriteFile(path, []byte(source), 0o644))

	f := NewFile(path)
	ctx := context.Background()

	products, err := f.Load(ctx)
	rq.NoError(err)
	rq.Len(products, 2)
	rq.Equal("gadget", products[0].Name)
	rq.False(products[0].Stopped())
	rq.True(products[1].Stopped())
	rq.Equal(int64(80), products[1].ExpectedPrice)

	rq.NoError(f.Save(ctx, products))

	saved, err := os.ReadFile(path)
	rq.NoError(err)
	rq.JSONEq(source, string(saved))
}

func TestFileMissing(t *testing.T) {
	rq := require.New(t)

	f := NewFile(filepath.Join(t.TempDir(), "missing.json"))

	_, err := f.Load(context.Background())
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.MalformedLedger))
}

func TestFileMalformed(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "products.json")
	rq.NoError(os.WriteFile(path, []byte(`{"products": "nope"}`), 0o644))

	_, err := NewFile(path).Load(context.Background())
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.MalformedLedger))
}

func TestFileSaveEmpty(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "products.json")
	f := NewFile(path)

	rq.NoError(f.Save(context.Background(), nil))

	saved, err := os.ReadFile(path)
	rq.NoError(err)
	rq.JSONEq(`{"products": []}`, string(saved))
}
