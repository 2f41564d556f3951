package entity

type ToolName string

const (
	ToolSQLListTables ToolName = "sql_db_list_tables"
	ToolSQLSchema     ToolName = "sql_db_schema"
	ToolSQLQuery      ToolName = "sql_db_query"
	ToolSQLQueryCheck ToolName = "sql_db_query_checker"
)

func (t ToolName) String() string {
	return string(t)
}
