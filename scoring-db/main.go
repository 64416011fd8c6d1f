// Command scoring-db initializes the interests store and loads sample data
// into it. The server itself never writes to the store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jmoiron/sqlx"
	jcr "github.com/tinode/jsonco"
	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"
)

type configType struct {
	StoreConfig struct {
		UseAdapter string                     `json:"use_adapter"`
		Adapters   map[string]json.RawMessage `json:"adapters"`
	} `json:"store_config"`
}

// dataType is the shape of the sample data file: client id to interest tags.
type dataType struct {
	Interests map[string][]string `json:"interests"`
}

func main() {
	var configfile = flag.String("config", "./scoring.conf", "Path to config file.")
	var datafile = flag.String("data", "./scoring-db/data.json", "Path to sample data to load.")
	var adapterName = flag.String("adapter", "", "Override store_config.use_adapter.")
	var reset = flag.Bool("reset", false, "Drop the existing data before loading.")
	flag.Parse()

	var config configType
	if file, err := os.Open(*configfile); err != nil {
		log.Fatal("Failed to read config file: ", err)
	} else {
		jr := jcr.New(file)
		if err = json.NewDecoder(jr).Decode(&config); err != nil {
			log.Fatal("Failed to parse config file: ", err)
		}
		file.Close()
	}

	if *adapterName == "" {
		*adapterName = config.StoreConfig.UseAdapter
	}
	adapterConfig := config.StoreConfig.Adapters[*adapterName]

	data := loadData(*datafile)
	log.Printf("Loading %d client records into '%s'", len(data), *adapterName)

	switch *adapterName {
	case "mysql":
		loadMysql(adapterConfig, data, *reset)
	case "postgres":
		loadPostgres(adapterConfig, data, *reset)
	case "mongodb":
		loadMongodb(adapterConfig, data, *reset)
	case "memory":
		log.Println("The memory adapter is seeded from its own config; nothing to do")
	default:
		log.Fatal("Unknown adapter '" + *adapterName + "'")
	}

	log.Println("All done")
}

func loadData(path string) map[int64][]string {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read data file: ", err)
	}
	var data dataType
	if err = json.Unmarshal(raw, &data); err != nil {
		log.Fatal("Failed to parse data file: ", err)
	}

	out := make(map[int64][]string, len(data.Interests))
	for key, tags := range data.Interests {
		cid, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Fatal("Client id is not an integer: ", key)
		}
		out[cid] = tags
	}
	return out
}

func loadMysql(jsonconf json.RawMessage, data map[int64][]string, reset bool) {
	var config struct {
		DSN string `json:"dsn"`
	}
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		log.Fatal("Failed to parse mysql config: ", err)
	}

	db, err := sqlx.Connect("mysql", config.DSN)
	if err != nil {
		log.Fatal("Failed to connect to mysql: ", err)
	}
	defer db.Close()

	if reset {
		db.MustExec("DROP TABLE IF EXISTS interests")
	}
	db.MustExec(`CREATE TABLE IF NOT EXISTS interests(
		id INT NOT NULL AUTO_INCREMENT,
		clientid BIGINT NOT NULL,
		tag VARCHAR(255) NOT NULL,
		PRIMARY KEY(id),
		INDEX interests_clientid(clientid))`)

	for cid, tags := range data {
		for _, tag := range tags {
			db.MustExec("INSERT INTO interests(clientid, tag) VALUES(?, ?)", cid, tag)
		}
	}
}

func loadPostgres(jsonconf json.RawMessage, data map[int64][]string, reset bool) {
	var config struct {
		DSN string `json:"dsn"`
	}
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		log.Fatal("Failed to parse postgres config: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := pgxpool.Connect(ctx, config.DSN)
	if err != nil {
		log.Fatal("Failed to connect to postgres: ", err)
	}
	defer db.Close()

	if reset {
		if _, err = db.Exec(ctx, "DROP TABLE IF EXISTS interests"); err != nil {
			log.Fatal("Failed to drop table: ", err)
		}
	}
	if _, err = db.Exec(ctx, `CREATE TABLE IF NOT EXISTS interests(
		id SERIAL PRIMARY KEY,
		clientid BIGINT NOT NULL,
		tag VARCHAR(255) NOT NULL)`); err != nil {
		log.Fatal("Failed to create table: ", err)
	}
	if _, err = db.Exec(ctx,
		"CREATE INDEX IF NOT EXISTS interests_clientid ON interests(clientid)"); err != nil {
		log.Fatal("Failed to create index: ", err)
	}

	for cid, tags := range data {
		for _, tag := range tags {
			if _, err = db.Exec(ctx,
				"INSERT INTO interests(clientid, tag) VALUES($1, $2)", cid, tag); err != nil {
				log.Fatal("Failed to insert: ", err)
			}
		}
	}
}

func loadMongodb(jsonconf json.RawMessage, data map[int64][]string, reset bool) {
	var config struct {
		Addresses interface{} `json:"addresses"`
		Database  string      `json:"database"`
	}
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		log.Fatal("Failed to parse mongodb config: ", err)
	}
	if config.Database == "" {
		config.Database = "scoring"
	}

	var opts mdbopts.ClientOptions
	switch hosts := config.Addresses.(type) {
	case nil:
		opts.SetHosts([]string{"localhost:27017"})
	case string:
		opts.SetHosts([]string{hosts})
	case []interface{}:
		var list []string
		for _, h := range hosts {
			list = append(list, h.(string))
		}
		opts.SetHosts(list)
	default:
		log.Fatal("Failed to parse mongodb addresses")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := mdb.Connect(ctx, &opts)
	if err != nil {
		log.Fatal("Failed to connect to mongodb: ", err)
	}
	defer conn.Disconnect(ctx)

	coll := conn.Database(config.Database).Collection("interests")
	if reset {
		if err = coll.Drop(ctx); err != nil {
			log.Fatal("Failed to drop collection: ", err)
		}
	}

	for cid, tags := range data {
		if _, err = coll.InsertOne(ctx, b.M{"_id": cid, "tags": tags}); err != nil {
			log.Fatal("Failed to insert: ", err)
		}
	}
}
