/******************************************************************************
 *
 *  Description :
 *
 *  Setup & initialization.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"runtime"

	"github.com/gorilla/handlers"
	jcr "github.com/tinode/jsonco"
	sf "github.com/tinode/snowflake"

	"github.com/scorelab/scoring/server/auth"
	"github.com/scorelab/scoring/server/logs"
	"github.com/scorelab/scoring/server/store"

	_ "github.com/scorelab/scoring/server/db/memory"
	_ "github.com/scorelab/scoring/server/db/mongodb"
	_ "github.com/scorelab/scoring/server/db/mysql"
	_ "github.com/scorelab/scoring/server/db/postgres"

	_ "github.com/scorelab/scoring/server/method/interests"
	_ "github.com/scorelab/scoring/server/method/score"
)

// currentVersion is published through expvar for the monitoring exporter.
const currentVersion = 1.0

var globals struct {
	authenticator *auth.Authenticator
	requestIDGen  *sf.SnowFlake

	apiPath         string
	statsUpdate     chan *varUpdate
	tlsStrictMaxAge string
}

type configType struct {
	// Address and port to listen on.
	Listen string `json:"listen"`
	// URL path of the API endpoint.
	ApiPath string `json:"api_path"`
	// URL path where runtime stats are exposed, "-" to disable.
	Expvar string `json:"expvar"`
	// Write an Apache-format access log to stdout.
	AccessLog bool `json:"access_log"`

	// Login of the elevated account.
	AdminLogin string `json:"admin_login"`
	// Secret mixed into the hourly admin token.
	AdminSecret string `json:"admin_secret"`
	// Salt mixed into regular account tokens.
	UserSalt string `json:"user_salt"`

	// Worker ID for the request id generator, 0-1023.
	WorkerID int `json:"worker_id"`

	TLS         json.RawMessage `json:"tls"`
	StoreConfig json.RawMessage `json:"store_config"`
}

func main() {
	logs.Init(nil)

	logs.Info.Printf("Server v%v pid=%d started with processes: %d",
		currentVersion, os.Getpid(), runtime.GOMAXPROCS(runtime.NumCPU()))

	var configfile = flag.String("config", "./scoring.conf", "Path to config file.")
	var listenOn = flag.String("listen", "", "Override scoring.conf address and port to listen on.")
	var expvarPath = flag.String("expvar", "", "Override the path where runtime stats are exposed.")
	flag.Parse()

	logs.Info.Printf("Using config from: '%s'", *configfile)

	var config configType
	if file, err := os.Open(*configfile); err != nil {
		logs.Error.Fatal("Failed to read config file: ", err)
	} else {
		jr := jcr.New(file)
		if err = json.NewDecoder(jr).Decode(&config); err != nil {
			switch jerr := err.(type) {
			case *json.UnmarshalTypeError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Error.Fatalf("Unmarshall error in config file in %s at %d:%d (offset %d bytes): %s",
					jerr.Field, lnum, cnum, jerr.Offset, jerr.Error())
			case *json.SyntaxError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Error.Fatalf("Syntax error in config file at %d:%d (offset %d bytes): %s",
					lnum, cnum, jerr.Offset, jerr.Error())
			default:
				logs.Error.Fatal("Failed to parse config file: ", err)
			}
		}
		file.Close()
	}

	if *listenOn != "" {
		config.Listen = *listenOn
	}
	if *expvarPath != "" {
		config.Expvar = *expvarPath
	}
	if config.ApiPath == "" {
		config.ApiPath = "/method/"
	}
	if config.AdminLogin == "" {
		config.AdminLogin = "admin"
	}
	if config.AdminSecret == "" || config.UserSalt == "" {
		logs.Error.Fatal("Both admin_secret and user_salt must be set in the config")
	}

	globals.apiPath = config.ApiPath
	globals.authenticator = auth.NewAuthenticator(config.AdminLogin, config.AdminSecret, config.UserSalt)

	var err error
	if globals.requestIDGen, err = sf.NewSnowFlake(uint32(config.WorkerID)); err != nil {
		logs.Error.Fatal("Failed to init request id generator: ", err)
	}

	if err = store.Open(config.StoreConfig); err != nil {
		logs.Error.Fatal("Failed to connect to the interests store: ", err)
	}
	defer func() {
		store.Close()
		logs.Info.Println("Closed database connection(s)")
	}()
	logs.Info.Println("DB adapter opened:", store.GetAdapterName())

	mux := http.NewServeMux()
	mux.HandleFunc(globals.apiPath, serveMethod)
	mux.HandleFunc("/", serve404)

	statsInit(mux, config.Expvar)
	statsRegisterInt("TotalRequests")
	statsRegisterInt("LiveRequests")
	statsRegisterInt("RequestsOK")
	statsRegisterInt("RequestsMalformed")
	statsRegisterInt("RequestsForbidden")
	statsRegisterInt("RequestsNotFound")
	statsRegisterInt("RequestsInvalid")
	statsRegisterInt("RequestsInternal")
	statsRegisterInt("RequestsOther")
	statsRegisterInt("WorkerID")
	statsSet("WorkerID", int64(config.WorkerID))

	var handler http.Handler = handlers.CompressHandler(mux)
	if config.AccessLog {
		handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	}

	if err = listenAndServe(config.Listen, handler, string(config.TLS), signalHandler()); err != nil {
		logs.Error.Fatal(err)
	}
	logs.Info.Println("All done, good bye")
}
