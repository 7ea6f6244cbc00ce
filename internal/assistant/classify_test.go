package assistant

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		query string
		want  QueryKind
	}{
		{"What is the price of AAPL?", KindPrice},
		{"What is Amazon worth?", KindPrice},
		{"Compare Apple and Microsoft", KindComparison},
		{"Apple versus Google", KindComparison},
		{"Tell me about Tesla", KindCompany},
		{"Give me info about GOOGL", KindCompany},
		{"Show RSI for Microsoft", KindTechnical},
		{"Bollinger bands for AAPL", KindTechnical},
		{"Analyze Apple", KindAnalysis},
		{"How is Amazon doing?", KindAnalysis},
		{"Tesla revenue growth", KindPerformance},
		{"Should I invest in Tesla right now?", KindStrategy},
		{"Explain diversification", KindEducation},
		{"hello", KindGeneral},
		{"", KindGeneral},
	}
	for _, tc := range cases {
		if got := Classify(tc.query); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// "analysis" appears in both the analysis and technical keyword sets; the
	// analysis bucket is checked first.
	if got := Classify("technical analysis of Microsoft"); got != KindAnalysis {
		t.Errorf("got %s, want %s", got, KindAnalysis)
	}
	// comparison outranks everything.
	if got := Classify("compare the price of Apple and Microsoft"); got != KindComparison {
		t.Errorf("got %s, want %s", got, KindComparison)
	}
}
