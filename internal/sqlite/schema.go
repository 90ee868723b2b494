package sqlite

// Table and column names of the record table.
const (
	tableRecords  = "records"
	colCollection = "collection"
	colPosition   = "position"
	colBody       = "body"
)

// createRecords holds one row per record; position keeps stored order.
const createRecords = `CREATE TABLE IF NOT EXISTS records (
    collection TEXT NOT NULL,
    position INTEGER NOT NULL,
    body TEXT NOT NULL,
    PRIMARY KEY (collection, position)
);`

// schemaDDL lists the statements executed on Attach.
var schemaDDL = []string{
	createRecords,
}
