/******************************************************************************
 *
 *  Description :
 *
 *  Request dispatcher for the single /method/ endpoint: parses the request
 *  envelope, validates common fields, authenticates the caller, dispatches
 *  to the named method handler and writes the response envelope. Failure in
 *  any stage short-circuits straight to the response.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/scorelab/scoring/server/auth"
	"github.com/scorelab/scoring/server/logs"
	"github.com/scorelab/scoring/server/method"
	"github.com/scorelab/scoring/server/validate"
)

// reqEnvelope holds the validated common fields of a request. String fields
// are nil when absent or empty on the wire; "required" only constrains key
// presence.
type reqEnvelope struct {
	Account *string
	Login   *string
	Token   *string
	Method  *string
	Args    map[string]interface{}
}

// fields returns the envelope's field descriptors bound to e. The envelope
// is validated with the same descriptor framework the methods use.
func (e *reqEnvelope) fields() []validate.Field {
	return []validate.Field{
		{Name: "account", Nullable: true, Rule: validate.String(&e.Account)},
		{Name: "login", Required: true, Nullable: true, Rule: validate.String(&e.Login)},
		{Name: "token", Required: true, Nullable: true, Rule: validate.String(&e.Token)},
		{Name: "method", Required: true, Nullable: true, Rule: validate.String(&e.Method)},
		{Name: "arguments", Required: true, Nullable: true, Rule: validate.Arguments(&e.Args)},
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// requestID returns the caller-supplied X-Request-ID or generates one.
func requestID(req *http.Request) string {
	if id := req.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	if globals.requestIDGen != nil {
		if id, err := globals.requestIDGen.Next(); err == nil {
			return strconv.FormatUint(id, 16)
		}
	}
	return "-"
}

// serveMethod handles a single API request end to end.
func serveMethod(wrt http.ResponseWriter, req *http.Request) {
	statsInc("LiveRequests", 1)
	defer statsInc("LiveRequests", -1)
	statsInc("TotalRequests", 1)

	reqID := requestID(req)

	if req.Method != http.MethodPost {
		writeReply(wrt, http.StatusBadRequest, nil, "")
		return
	}

	// Parse the envelope. Broken JSON, a null body and not-an-object are all
	// malformed.
	var parsed interface{}
	dec := json.NewDecoder(req.Body)
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		logs.Warning.Printf("method: malformed request id=%s: %s", reqID, err)
		writeReply(wrt, http.StatusBadRequest, nil, "")
		return
	}
	body, ok := parsed.(map[string]interface{})
	if !ok {
		logs.Warning.Printf("method: request is not an object id=%s", reqID)
		writeReply(wrt, http.StatusBadRequest, nil, "")
		return
	}

	// Validate common fields.
	var env reqEnvelope
	if err := validate.Fields(env.fields(), body); err != nil {
		writeReply(wrt, http.StatusUnprocessableEntity, nil, err.Error())
		return
	}

	// Authenticate. The caller gets one generic message regardless of which
	// check failed.
	rec, err := globals.authenticator.Authenticate(strVal(env.Account), strVal(env.Login), strVal(env.Token))
	if err != nil {
		logs.Warning.Printf("method: auth failure id=%s login=%s", reqID, strVal(env.Login))
		writeReply(wrt, http.StatusForbidden, nil, "")
		return
	}

	// Look up the method. Exact, case-sensitive match.
	name := strVal(env.Method)
	hdl := method.Get(name)
	if hdl == nil {
		writeReply(wrt, http.StatusNotFound, nil, "method '"+name+"' not found")
		return
	}

	// Validate method arguments.
	args := env.Args
	if args == nil {
		args = map[string]interface{}{}
	}
	bag, err := hdl.Validate(args)
	if err != nil {
		writeReply(wrt, http.StatusUnprocessableEntity, nil, err.Error())
		return
	}

	// Execute.
	result, info, err := execute(hdl, bag, rec)
	if err != nil {
		logs.Error.Printf("method: internal fault id=%s method=%s login=%s: %s",
			reqID, name, strVal(env.Login), err)
		writeReply(wrt, http.StatusInternalServerError, nil, "")
		return
	}

	// Context record for every executed request.
	logs.Info.Printf("method: id=%s method=%s login=%s account=%s level=%s has=%d nclients=%d",
		reqID, name, strVal(env.Login), strVal(env.Account), auth.LevelName(rec.Level),
		info.Has, info.NClients)

	writeReply(wrt, http.StatusOK, result, "")
}

// execute runs the handler, converting a panic into an internal fault. No
// stack or internal detail ever reaches the caller.
func execute(hdl method.Handler, bag interface{}, rec *auth.Rec) (result interface{}, info method.Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler: %v", r)
		}
	}()
	return hdl.Execute(bag, rec)
}

// writeReply serializes a response envelope. An empty errMsg for a non-OK
// code falls back to the canonical status text.
func writeReply(wrt http.ResponseWriter, code int, response interface{}, errMsg string) {
	reply := &ServerReply{Code: code}
	if code == http.StatusOK {
		reply.Response = response
	} else {
		if errMsg == "" {
			errMsg = statusText(code)
		}
		reply.Error = errMsg
	}

	wrt.Header().Set("Content-Type", "application/json; charset=utf-8")
	wrt.WriteHeader(code)
	json.NewEncoder(wrt).Encode(reply)

	statsInc(codeVarName(code), 1)
}

// codeVarName maps a response code to its expvar counter.
func codeVarName(code int) string {
	switch code {
	case http.StatusOK:
		return "RequestsOK"
	case http.StatusBadRequest:
		return "RequestsMalformed"
	case http.StatusForbidden:
		return "RequestsForbidden"
	case http.StatusNotFound:
		return "RequestsNotFound"
	case http.StatusUnprocessableEntity:
		return "RequestsInvalid"
	case http.StatusInternalServerError:
		return "RequestsInternal"
	}
	return "RequestsOther"
}

// serve404 replies with an error envelope to requests outside the API path.
func serve404(wrt http.ResponseWriter, req *http.Request) {
	writeReply(wrt, http.StatusNotFound, nil, "")
}
