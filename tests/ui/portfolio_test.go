package tests

import (
	"strings"
	"testing"
	"time"

	testcommon "github.com/bobmcallan/stock-analyser/tests/common"
	"github.com/chromedp/chromedp"
)

func TestPortfolioRendersSampleHoldings(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio", 0); err != nil {
		t.Fatal(err)
	}
	takeScreenshot(t, ctx, "us-portfolio.png")

	rows, err := testcommon.ElementCount(ctx, "#portfolio-table tbody tr")
	if err != nil {
		t.Fatal(err)
	}
	if rows == 0 {
		t.Fatal("expected sample holdings in the table")
	}

	visible, err := testcommon.IsVisible(ctx, `tr[data-ticker="AAPL"]`)
	if err != nil {
		t.Fatal(err)
	}
	if !visible {
		t.Error("expected AAPL row to be visible")
	}
}

func TestPortfolioSortShowsDirection(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio", 0); err != nil {
		t.Fatal(err)
	}
	if err := testcommon.Click(ctx, `[data-sort="name"]`, 800); err != nil {
		t.Fatal(err)
	}

	ok, actual, err := testcommon.TextContains(ctx, `[data-sort="name"]`, "▲")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("expected ascending arrow after first click, got %q", actual)
	}
}

func TestPortfolioHideColumn(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio", 0); err != nil {
		t.Fatal(err)
	}

	// The toggle lives in a collapsed menu, so click it from script.
	if _, err := testcommon.EvalBool(ctx, `(() => { document.querySelector('[data-toggle-column="sector"]').click(); return true; })()`); err != nil {
		t.Fatal(err)
	}
	if err := chromedp.Run(ctx, chromedp.Sleep(800*time.Millisecond), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		t.Fatal(err)
	}

	count, err := testcommon.ElementCount(ctx, `th[data-column="sector"]`)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("expected sector column to be hidden")
	}
}

func TestPortfolioRatingSurvivesReload(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	errs := testcommon.NewJSErrorCollector(ctx)
	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio", 0); err != nil {
		t.Fatal(err)
	}

	sel := `select.rating-select[data-ticker="AAPL"][data-field="perplexity_rating"]`
	var dispatched bool
	if err := chromedp.Run(ctx,
		chromedp.SetValue(sel, "Sell", chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelector('`+sel+`').dispatchEvent(new Event('change'))`, &dispatched),
		chromedp.Sleep(500*time.Millisecond),
	); err != nil {
		t.Fatal(err)
	}

	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio", 0); err != nil {
		t.Fatal(err)
	}

	var value, class string
	if err := chromedp.Run(ctx,
		chromedp.Value(sel, &value, chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelector('`+sel+`').className`, &class),
	); err != nil {
		t.Fatal(err)
	}
	if value != "Sell" {
		t.Errorf("expected Sell after reload, got %q", value)
	}
	if !strings.Contains(class, "rating-sell") {
		t.Errorf("expected rating-sell class, got %q", class)
	}
	if jsErrs := errs.Errors(); len(jsErrs) > 0 {
		t.Errorf("JS errors:\n  %s", strings.Join(jsErrs, "\n  "))
	}
}

func TestPortfolioAnalysisPage(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio/analysis/AAPL", 0); err != nil {
		t.Fatal(err)
	}

	ok, actual, err := testcommon.TextContains(ctx, "main", "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("expected analysis for AAPL, got %q", actual)
	}
}

func TestPortfolioReorderKeepsHiddenColumnSlot(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio", 0); err != nil {
		t.Fatal(err)
	}

	// Hide sector unless an earlier test already did.
	if _, err := testcommon.EvalBool(ctx, `(() => {
		const box = document.querySelector('[data-toggle-column="sector"]');
		if (box.checked) box.click();
		return true;
	})()`); err != nil {
		t.Fatal(err)
	}
	if err := chromedp.Run(ctx, chromedp.Sleep(800*time.Millisecond), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		t.Fatal(err)
	}

	if _, err := testcommon.EvalBool(ctx, `(() => {
		const src = document.querySelector('th[data-column="quantity"]');
		const dst = document.querySelector('th[data-column="ticker"]');
		src.dispatchEvent(new Event('dragstart'));
		dst.dispatchEvent(new Event('drop', {cancelable: true}));
		return true;
	})()`); err != nil {
		t.Fatal(err)
	}
	if err := chromedp.Run(ctx, chromedp.Sleep(800*time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if err := testcommon.NavigateAndWait(ctx, baseURL+"/us-portfolio", 0); err != nil {
		t.Fatal(err)
	}

	var order []string
	if err := chromedp.Run(ctx, chromedp.Evaluate(
		`Array.from(document.querySelectorAll('[data-toggle-column]')).map(el => el.getAttribute('data-toggle-column'))`,
		&order,
	)); err != nil {
		t.Fatal(err)
	}

	got := strings.Join(order, ",")
	if !strings.HasPrefix(got, "logo,quantity,ticker,name,sector,") {
		t.Errorf("expected hidden sector to keep its slot, got %s", got)
	}
}
