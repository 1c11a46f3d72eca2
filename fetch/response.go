package fetch

import "encoding/xml"

// Response mirrors the short-term forecast XML envelope.
type Response struct {
	XMLName xml.Name `xml:"response"`
	Header  Header   `xml:"header"`
	Body    Body     `xml:"body"`
}

type Header struct {
	ResultCode string `xml:"resultCode"`
	ResultMsg  string `xml:"resultMsg"`
}

type Body struct {
	DataType   string `xml:"dataType"`
	Items      Items  `xml:"items"`
	PageNo     int    `xml:"pageNo"`
	NumOfRows  int    `xml:"numOfRows"`
	TotalCount int    `xml:"totalCount"`
}

type Items struct {
	Item []Item `xml:"item"`
}

// Item is one row of forecast data. Category selects which scalar FcstValue
// carries.
type Item struct {
	BaseDate  string `xml:"baseDate"`
	BaseTime  string `xml:"baseTime"`
	Category  string `xml:"category"`
	FcstDate  string `xml:"fcstDate"`
	FcstTime  string `xml:"fcstTime"`
	FcstValue string `xml:"fcstValue"`
	Nx        int    `xml:"nx"`
	Ny        int    `xml:"ny"`
}
