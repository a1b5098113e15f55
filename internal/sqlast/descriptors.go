package sqlast

// The descriptor table. Field labels must match the struct field names; the
// consistency check relies on it.
func init() {
	// names and types
	register[*Name]()
	register[*Qualified](
		one("Qualifier", func(n *Qualified) *Name { return n.Qualifier }),
		one("Name", func(n *Qualified) *Name { return n.Name }),
	)
	register[*DataType](
		one("Name", func(n *DataType) *Qualified { return n.Name }),
	)

	// expressions
	register[*Literal]()
	register[*ColumnRef](
		one("Table", func(n *ColumnRef) *Qualified { return n.Table }),
		one("Column", func(n *ColumnRef) *Name { return n.Column }),
	)
	register[*Star](
		one("Table", func(n *Star) *Qualified { return n.Table }),
	)
	register[*FunctionCall](
		one("Function", func(n *FunctionCall) *Qualified { return n.Function }),
		many("Args", func(n *FunctionCall) []Expression { return n.Args }),
		one("Over", func(n *FunctionCall) *Over { return n.Over }),
	)
	register[*Over](
		many("PartitionBy", func(n *Over) []Expression { return n.PartitionBy }),
		many("OrderBy", func(n *Over) []*OrderItem { return n.OrderBy }),
	)
	register[*Binary](
		one("Left", func(n *Binary) Expression { return n.Left }),
		one("Right", func(n *Binary) Expression { return n.Right }),
	)
	register[*Unary](
		one("Operand", func(n *Unary) Expression { return n.Operand }),
	)
	register[*IsNull](
		one("Expr", func(n *IsNull) Expression { return n.Expr }),
	)
	register[*In](
		one("Expr", func(n *In) Expression { return n.Expr }),
		many("List", func(n *In) []Expression { return n.List }),
		one("Query", func(n *In) *SelectQuery { return n.Query }),
	)
	register[*Between](
		one("Expr", func(n *Between) Expression { return n.Expr }),
		one("Low", func(n *Between) Expression { return n.Low }),
		one("High", func(n *Between) Expression { return n.High }),
	)
	register[*Exists](
		one("Query", func(n *Exists) *SelectQuery { return n.Query }),
	)
	register[*Case](
		one("Operand", func(n *Case) Expression { return n.Operand }),
		many("Whens", func(n *Case) []*When { return n.Whens }),
		one("Else", func(n *Case) Expression { return n.Else }),
	)
	register[*When](
		one("Condition", func(n *When) Expression { return n.Condition }),
		one("Result", func(n *When) Expression { return n.Result }),
	)
	register[*Cast](
		one("Expr", func(n *Cast) Expression { return n.Expr }),
		one("Type", func(n *Cast) *DataType { return n.Type }),
		one("Style", func(n *Cast) Expression { return n.Style }),
	)
	register[*Subquery](
		one("Query", func(n *Subquery) *SelectQuery { return n.Query }),
	)
	register[*Paren](
		one("Expr", func(n *Paren) Expression { return n.Expr }),
	)

	// queries
	register[*SelectQuery](
		many("CTEs", func(n *SelectQuery) []*CommonTableExpression { return n.CTEs }),
		one("Top", func(n *SelectQuery) *Top { return n.Top }),
		many("Columns", func(n *SelectQuery) []*SelectColumn { return n.Columns }),
		many("From", func(n *SelectQuery) []TableSource { return n.From }),
		one("Where", func(n *SelectQuery) Expression { return n.Where }),
		many("GroupBy", func(n *SelectQuery) []Expression { return n.GroupBy }),
		one("Having", func(n *SelectQuery) Expression { return n.Having }),
		one("Union", func(n *SelectQuery) *Union { return n.Union }),
		many("OrderBy", func(n *SelectQuery) []*OrderItem { return n.OrderBy }),
		one("Options", func(n *SelectQuery) *QueryOptions { return n.Options }),
	)
	register[*CommonTableExpression](
		one("Name", func(n *CommonTableExpression) *Name { return n.Name }),
		many("Columns", func(n *CommonTableExpression) []*Name { return n.Columns }),
		one("Query", func(n *CommonTableExpression) *SelectQuery { return n.Query }),
	)
	register[*Top](
		one("Count", func(n *Top) Expression { return n.Count }),
	)
	register[*SelectColumn](
		one("Variable", func(n *SelectColumn) *Name { return n.Variable }),
		one("Expr", func(n *SelectColumn) Expression { return n.Expr }),
		one("Alias", func(n *SelectColumn) *Name { return n.Alias }),
	)
	register[*Union](
		one("Query", func(n *Union) *SelectQuery { return n.Query }),
	)
	register[*OrderItem](
		one("Expr", func(n *OrderItem) Expression { return n.Expr }),
	)
	register[*QueryOptions](
		many("Hints", func(n *QueryOptions) []*Name { return n.Hints }),
	)
	register[*TableRef](
		one("Table", func(n *TableRef) *Qualified { return n.Table }),
		one("Alias", func(n *TableRef) *Name { return n.Alias }),
		many("Hints", func(n *TableRef) []*Name { return n.Hints }),
	)
	register[*Join](
		one("Left", func(n *Join) TableSource { return n.Left }),
		one("Right", func(n *Join) TableSource { return n.Right }),
		one("On", func(n *Join) Expression { return n.On }),
	)
	register[*DerivedTable](
		one("Query", func(n *DerivedTable) *SelectQuery { return n.Query }),
		one("Alias", func(n *DerivedTable) *Name { return n.Alias }),
	)
	register[*FunctionTable](
		one("Call", func(n *FunctionTable) *FunctionCall { return n.Call }),
		one("Alias", func(n *FunctionTable) *Name { return n.Alias }),
	)

	// tables
	register[*CreateTable](
		one("Table", func(n *CreateTable) *Qualified { return n.Table }),
		many("Definitions", func(n *CreateTable) []TableDefinition { return n.Definitions }),
	)
	register[*ColumnDefinition](
		one("Name", func(n *ColumnDefinition) *Name { return n.Name }),
		one("Type", func(n *ColumnDefinition) *DataType { return n.Type }),
		one("Computed", func(n *ColumnDefinition) Expression { return n.Computed }),
		one("Default", func(n *ColumnDefinition) *DefaultConstraint { return n.Default }),
		many("Constraints", func(n *ColumnDefinition) []*Constraint { return n.Constraints }),
	)
	register[*DefaultConstraint](
		one("Name", func(n *DefaultConstraint) *Name { return n.Name }),
		one("Expr", func(n *DefaultConstraint) Expression { return n.Expr }),
		one("Column", func(n *DefaultConstraint) *Name { return n.Column }),
	)
	register[*Constraint](
		one("Name", func(n *Constraint) *Name { return n.Name }),
		many("Columns", func(n *Constraint) []*IndexColumn { return n.Columns }),
		one("Check", func(n *Constraint) Expression { return n.Check }),
		one("References", func(n *Constraint) *Qualified { return n.References }),
		many("RefColumns", func(n *Constraint) []*Name { return n.RefColumns }),
	)
	register[*IndexColumn](
		one("Name", func(n *IndexColumn) *Name { return n.Name }),
	)
	register[*TableTarget](
		one("Table", func(n *TableTarget) *Qualified { return n.Table }),
	)
	register[*AlterTableAdd](
		inherit("TableTarget", func(n *AlterTableAdd) *TableTarget { return &n.TableTarget }),
		many("Definitions", func(n *AlterTableAdd) []TableDefinition { return n.Definitions }),
	)
	register[*AlterTableDropConstraint](
		inherit("TableTarget", func(n *AlterTableDropConstraint) *TableTarget { return &n.TableTarget }),
		one("Constraint", func(n *AlterTableDropConstraint) *Name { return n.Constraint }),
	)
	register[*AlterTableCheckConstraints](
		inherit("TableTarget", func(n *AlterTableCheckConstraints) *TableTarget { return &n.TableTarget }),
		many("Constraints", func(n *AlterTableCheckConstraints) []*Name { return n.Constraints }),
	)
	register[*AlterTableAlterColumn](
		inherit("TableTarget", func(n *AlterTableAlterColumn) *TableTarget { return &n.TableTarget }),
		one("Column", func(n *AlterTableAlterColumn) *ColumnDefinition { return n.Column }),
	)
	register[*AlterTableDropColumn](
		inherit("TableTarget", func(n *AlterTableDropColumn) *TableTarget { return &n.TableTarget }),
		many("Columns", func(n *AlterTableDropColumn) []*Name { return n.Columns }),
	)
	register[*TableFragment](
		one("Table", func(n *TableFragment) *Qualified { return n.Table }),
		many("Definitions", func(n *TableFragment) []TableDefinition { return n.Definitions }),
	)
	register[*ConstraintFragment](
		one("Table", func(n *ConstraintFragment) *Qualified { return n.Table }),
		one("Constraint", func(n *ConstraintFragment) *Constraint { return n.Constraint }),
	)

	// modules and indexes
	register[*CreateView](
		one("View", func(n *CreateView) *Qualified { return n.View }),
		many("Columns", func(n *CreateView) []*Name { return n.Columns }),
		one("Query", func(n *CreateView) *SelectQuery { return n.Query }),
	)
	register[*Routine](
		many("Parameters", func(n *Routine) []*Parameter { return n.Parameters }),
		many("Body", func(n *Routine) []Statement { return n.Body }),
	)
	register[*Parameter](
		one("Name", func(n *Parameter) *Name { return n.Name }),
		one("Type", func(n *Parameter) *DataType { return n.Type }),
		one("Default", func(n *Parameter) Expression { return n.Default }),
	)
	register[*CreateProcedure](
		inherit("Routine", func(n *CreateProcedure) *Routine { return &n.Routine }),
		one("Procedure", func(n *CreateProcedure) *Qualified { return n.Procedure }),
	)
	register[*CreateFunction](
		inherit("Routine", func(n *CreateFunction) *Routine { return &n.Routine }),
		one("Function", func(n *CreateFunction) *Qualified { return n.Function }),
		one("Returns", func(n *CreateFunction) *FunctionReturn { return n.Returns }),
		one("Query", func(n *CreateFunction) *SelectQuery { return n.Query }),
	)
	register[*FunctionReturn](
		one("Type", func(n *FunctionReturn) *DataType { return n.Type }),
		one("Variable", func(n *FunctionReturn) *Name { return n.Variable }),
		many("Definitions", func(n *FunctionReturn) []TableDefinition { return n.Definitions }),
	)
	register[*CreateTrigger](
		one("Trigger", func(n *CreateTrigger) *Qualified { return n.Trigger }),
		one("Table", func(n *CreateTrigger) *Qualified { return n.Table }),
		many("Body", func(n *CreateTrigger) []Statement { return n.Body }),
	)
	register[*CreateIndex](
		one("Index", func(n *CreateIndex) *Name { return n.Index }),
		one("Table", func(n *CreateIndex) *Qualified { return n.Table }),
		many("Columns", func(n *CreateIndex) []*IndexColumn { return n.Columns }),
		many("Include", func(n *CreateIndex) []*Name { return n.Include }),
		one("Where", func(n *CreateIndex) Expression { return n.Where }),
	)

	// other statements
	register[*CreateSchema](
		one("Schema", func(n *CreateSchema) *Name { return n.Schema }),
		one("Authorization", func(n *CreateSchema) *Name { return n.Authorization }),
		many("Statements", func(n *CreateSchema) []Statement { return n.Statements }),
	)
	register[*Drop](
		one("Object", func(n *Drop) *Qualified { return n.Object }),
	)
	register[*DropIndex](
		one("Index", func(n *DropIndex) *Name { return n.Index }),
		one("Table", func(n *DropIndex) *Qualified { return n.Table }),
	)
	register[*Insert](
		one("Table", func(n *Insert) *Qualified { return n.Table }),
		many("Columns", func(n *Insert) []*Name { return n.Columns }),
		many("Rows", func(n *Insert) []*ValuesRow { return n.Rows }),
		one("Query", func(n *Insert) *SelectQuery { return n.Query }),
	)
	register[*ValuesRow](
		many("Values", func(n *ValuesRow) []Expression { return n.Values }),
	)
	register[*Update](
		one("Top", func(n *Update) *Top { return n.Top }),
		one("Target", func(n *Update) *Qualified { return n.Target }),
		many("Set", func(n *Update) []*Assignment { return n.Set }),
		many("From", func(n *Update) []TableSource { return n.From }),
		one("Where", func(n *Update) Expression { return n.Where }),
	)
	register[*Assignment](
		one("Column", func(n *Assignment) *ColumnRef { return n.Column }),
		one("Value", func(n *Assignment) Expression { return n.Value }),
	)
	register[*Delete](
		one("Top", func(n *Delete) *Top { return n.Top }),
		one("Target", func(n *Delete) *Qualified { return n.Target }),
		many("From", func(n *Delete) []TableSource { return n.From }),
		one("Where", func(n *Delete) Expression { return n.Where }),
	)
	register[*Exec](
		one("Result", func(n *Exec) *Name { return n.Result }),
		one("Procedure", func(n *Exec) *Qualified { return n.Procedure }),
		many("Args", func(n *Exec) []*ExecArg { return n.Args }),
	)
	register[*ExecArg](
		one("Parameter", func(n *ExecArg) *Name { return n.Parameter }),
		one("Value", func(n *ExecArg) Expression { return n.Value }),
	)
	register[*SetIdentityInsert](
		one("Table", func(n *SetIdentityInsert) *Qualified { return n.Table }),
	)
	register[*SetOption]()
	register[*Declare](
		many("Variables", func(n *Declare) []*VariableDeclaration { return n.Variables }),
	)
	register[*VariableDeclaration](
		one("Name", func(n *VariableDeclaration) *Name { return n.Name }),
		one("Type", func(n *VariableDeclaration) *DataType { return n.Type }),
		many("Definitions", func(n *VariableDeclaration) []TableDefinition { return n.Definitions }),
		one("Value", func(n *VariableDeclaration) Expression { return n.Value }),
	)
	register[*SetVariable](
		one("Variable", func(n *SetVariable) *Name { return n.Variable }),
		one("Value", func(n *SetVariable) Expression { return n.Value }),
	)
	register[*If](
		one("Condition", func(n *If) Expression { return n.Condition }),
		one("Then", func(n *If) Statement { return n.Then }),
		one("Else", func(n *If) Statement { return n.Else }),
	)
	register[*While](
		one("Condition", func(n *While) Expression { return n.Condition }),
		one("Body", func(n *While) Statement { return n.Body }),
	)
	register[*Block](
		many("Statements", func(n *Block) []Statement { return n.Statements }),
	)
	register[*TryCatch](
		many("Try", func(n *TryCatch) []Statement { return n.Try }),
		many("Catch", func(n *TryCatch) []Statement { return n.Catch }),
	)
	register[*Return](
		one("Value", func(n *Return) Expression { return n.Value }),
	)
	register[*SelectStatement](
		one("Query", func(n *SelectStatement) *SelectQuery { return n.Query }),
	)
	register[*Print](
		one("Value", func(n *Print) Expression { return n.Value }),
	)
	register[*Raiserror](
		many("Args", func(n *Raiserror) []Expression { return n.Args }),
	)
	register[*Transaction](
		one("Name", func(n *Transaction) *Name { return n.Name }),
	)
}
