package web

import (
	"html"
	"strconv"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func i64toa(value int64) string {
	return strconv.FormatInt(value, 10)
}

func escape(text string) string {
	return html.EscapeString(text)
}
