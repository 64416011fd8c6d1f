/******************************************************************************
 *
 *  Description :
 *
 *  Wire types of the scoring API.
 *
 *****************************************************************************/

package main

import "net/http"

// ServerReply is the response envelope: exactly one of Response or Error is
// set. Code mirrors the HTTP status code. Constructed once per request,
// serialized and discarded.
type ServerReply struct {
	Code     int         `json:"code"`
	Response interface{} `json:"response,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// statusText returns the canonical error text for a bare status code.
func statusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusUnprocessableEntity:
		return "Invalid Request"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	}
	return "Unknown Error"
}
