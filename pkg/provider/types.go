package provider

// Wire types for the football data API (v3). Only the fields the engine's
// input contract needs are mapped; the provider sends far more.

// envelope is the common response wrapper. The errors field is a raw blob
// because the API serializes it as an empty array on success and as an
// object of message strings on failure.
type envelope struct {
	Errors  rawErrors `json:"errors"`
	Results int       `json:"results"`
}

// teamStatisticsResponse is the shape of /teams/statistics.
type teamStatisticsResponse struct {
	envelope
	Response teamStatisticsBody `json:"response"`
}

type teamStatisticsBody struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Fixtures struct {
		Played totals `json:"played"`
		Wins   totals `json:"wins"`
		Draws  totals `json:"draws"`
		Loses  totals `json:"loses"`
	} `json:"fixtures"`
	Goals struct {
		For struct {
			Total totals `json:"total"`
		} `json:"for"`
		Against struct {
			Total totals `json:"total"`
		} `json:"against"`
	} `json:"goals"`
	CleanSheet    totals `json:"clean_sheet"`
	FailedToScore totals `json:"failed_to_score"`
	Form          string `json:"form"`
}

type totals struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

// fixturesResponse is the shape of /fixtures and /fixtures/headtohead.
type fixturesResponse struct {
	envelope
	Response []fixtureBody `json:"response"`
}

type fixtureBody struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Season  int    `json:"season"`
		Round   string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type teamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
