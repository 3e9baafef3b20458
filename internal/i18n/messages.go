package i18n

var messages = map[string]map[string]string{
	PT: {
		"app.title":     "Obras",
		"app.subtitle":  "Gestão de custos de obras",
		"nav.dashboard": "Painel",
		"nav.projects":  "Projetos",
		"nav.logout":    "Sair",

		"login.title":    "Acesso",
		"login.username": "Usuário",
		"login.password": "Senha",
		"login.submit":   "Entrar",
		"login.invalid":  "Credenciais inválidas.",

		"dashboard.title":           "Painel",
		"dashboard.total_budget":    "Orçamento Total",
		"dashboard.total_spend":     "Gasto Total",
		"dashboard.profit":          "Lucro Projetado",
		"dashboard.active":          "Projetos",
		"dashboard.cost_split":      "Distribuição de Custos",
		"dashboard.budget_vs_spend": "Orçamento x Gasto",
		"dashboard.risk_alert":      "Atenção: os gastos ultrapassaram 80% do orçamento.",
		"dashboard.risk_projects":   "Projetos em risco",

		"project.title":             "Projetos",
		"project.new":               "Novo Projeto",
		"project.name":              "Nome",
		"project.address":           "Endereço",
		"project.responsible":       "Responsável",
		"project.start_date":        "Início",
		"project.expected_end_date": "Previsão de Término",
		"project.total_budget":      "Orçamento (R$)",
		"project.profit_margin":     "Margem de Lucro (%)",
		"project.status":            "Status",
		"project.empty":             "Nenhum projeto cadastrado.",
		"project.confirm_delete":    "Excluir este projeto e todas as suas etapas, materiais, mão de obra e despesas?",
		"project.yes_delete":        "Sim, excluir",
		"project.report":            "Relatório do Projeto",

		"tab.overview":  "Visão Geral",
		"tab.materials": "Materiais",
		"tab.labor":     "Mão de Obra",
		"tab.expenses":  "Despesas",

		"fin.total_materials":  "Materiais",
		"fin.total_labor":      "Mão de Obra",
		"fin.total_expenses":   "Despesas",
		"fin.total_cost":       "Custo Total",
		"fin.projected_profit": "Lucro Projetado",
		"fin.real_margin":      "Margem Real",
		"fin.utilization":      "Utilização do Orçamento",
		"fin.over_budget":      "Acima do orçamento",
		"fin.risk":             "Risco de estouro do orçamento",

		"stage.title":          "Etapas",
		"stage.new":            "Nova Etapa",
		"stage.name":           "Etapa",
		"stage.estimated_cost": "Custo Estimado (R$)",
		"stage.actual_cost":    "Custo Real",
		"stage.responsible":    "Responsável",
		"stage.deadline":       "Prazo",
		"stage.status":         "Status",
		"stage.progress":       "Etapas concluídas",

		"material.new":           "Novo Material",
		"material.stage":         "Etapa",
		"material.name":          "Material",
		"material.unit":          "Unidade",
		"material.quantity":      "Quantidade",
		"material.unit_price":    "Preço Unitário (R$)",
		"material.supplier":      "Fornecedor",
		"material.purchase_date": "Data da Compra",
		"material.cost":          "Total",

		"labor.new":          "Novo Lançamento",
		"labor.stage":        "Etapa",
		"labor.role":         "Função",
		"labor.worker_name":  "Profissional",
		"labor.hourly_rate":  "Valor Hora (R$)",
		"labor.hours_worked": "Horas",
		"labor.date":         "Data",
		"labor.cost":         "Total",

		"expense.new":         "Nova Despesa",
		"expense.description": "Descrição",
		"expense.category":    "Categoria",
		"expense.amount":      "Valor (R$)",
		"expense.date":        "Data",

		"action.add":     "Adicionar",
		"action.create":  "Criar",
		"action.delete":  "Excluir",
		"action.cancel":  "Cancelar",
		"action.open":    "Abrir",
		"action.print":   "Imprimir / PDF",
		"action.export":  "Exportar XLSX",
		"action.analyze": "Analisar riscos com IA",

		"advisor.title":   "Análise de Risco (IA)",
		"advisor.loading": "Analisando...",

		"project_status.planning":    "Planejamento",
		"project_status.in_progress": "Em Andamento",
		"project_status.completed":   "Concluído",
		"project_status.paused":      "Pausado",

		"stage_status.pending":     "Pendente",
		"stage_status.in_progress": "Em Andamento",
		"stage_status.completed":   "Concluída",

		"category.rental":    "Aluguel",
		"category.fees":      "Taxas",
		"category.transport": "Transporte",
		"category.food":      "Alimentação",
		"category.equipment": "Equipamentos",
		"category.other":     "Outros",

		"violation.required":         "Campo obrigatório.",
		"violation.must_be_positive": "Informe um valor maior que zero.",
		"violation.invalid_number":   "Número inválido.",
		"violation.invalid_date":     "Data inválida.",
		"violation.invalid_choice":   "Opção inválida.",
		"violation.out_of_range":     "Valor fora do intervalo permitido.",
		"violation.too_long":         "Texto muito longo.",

		"error.not_found":  "Registro não encontrado.",
		"error.internal":   "Erro interno. Tente novamente.",
		"error.validation": "Verifique os campos destacados.",
		"error.rate_limit": "Muitas requisições. Aguarde um momento.",

		"toast.project_created": "Projeto criado.",
		"toast.project_deleted": "Projeto excluído.",
		"toast.stage_created":   "Etapa adicionada.",
		"toast.stage_updated":   "Status da etapa atualizado.",
		"toast.entry_added":     "Lançamento adicionado.",
		"toast.entry_deleted":   "Lançamento excluído.",

		"list.empty": "Nenhum registro.",
	},
	EN: {
		"app.title":     "Obras",
		"app.subtitle":  "Construction cost management",
		"nav.dashboard": "Dashboard",
		"nav.projects":  "Projects",
		"nav.logout":    "Log out",

		"login.title":    "Sign in",
		"login.username": "Username",
		"login.password": "Password",
		"login.submit":   "Sign in",
		"login.invalid":  "Invalid credentials.",

		"dashboard.title":           "Dashboard",
		"dashboard.total_budget":    "Total Budget",
		"dashboard.total_spend":     "Total Spend",
		"dashboard.profit":          "Projected Profit",
		"dashboard.active":          "Projects",
		"dashboard.cost_split":      "Cost Breakdown",
		"dashboard.budget_vs_spend": "Budget vs Spend",
		"dashboard.risk_alert":      "Warning: spending is above 80% of the budget.",
		"dashboard.risk_projects":   "Projects at risk",

		"project.title":             "Projects",
		"project.new":               "New Project",
		"project.name":              "Name",
		"project.address":           "Address",
		"project.responsible":       "Responsible",
		"project.start_date":        "Start",
		"project.expected_end_date": "Expected End",
		"project.total_budget":      "Budget (R$)",
		"project.profit_margin":     "Profit Margin (%)",
		"project.status":            "Status",
		"project.empty":             "No projects yet.",
		"project.confirm_delete":    "Delete this project and all of its stages, materials, labor and expenses?",
		"project.yes_delete":        "Yes, delete",
		"project.report":            "Project Report",

		"tab.overview":  "Overview",
		"tab.materials": "Materials",
		"tab.labor":     "Labor",
		"tab.expenses":  "Expenses",

		"fin.total_materials":  "Materials",
		"fin.total_labor":      "Labor",
		"fin.total_expenses":   "Expenses",
		"fin.total_cost":       "Total Cost",
		"fin.projected_profit": "Projected Profit",
		"fin.real_margin":      "Real Margin",
		"fin.utilization":      "Budget Utilization",
		"fin.over_budget":      "Over budget",
		"fin.risk":             "Budget overrun risk",

		"stage.title":          "Stages",
		"stage.new":            "New Stage",
		"stage.name":           "Stage",
		"stage.estimated_cost": "Estimated Cost (R$)",
		"stage.actual_cost":    "Actual Cost",
		"stage.responsible":    "Responsible",
		"stage.deadline":       "Deadline",
		"stage.status":         "Status",
		"stage.progress":       "Stages completed",

		"material.new":           "New Material",
		"material.stage":         "Stage",
		"material.name":          "Material",
		"material.unit":          "Unit",
		"material.quantity":      "Quantity",
		"material.unit_price":    "Unit Price (R$)",
		"material.supplier":      "Supplier",
		"material.purchase_date": "Purchase Date",
		"material.cost":          "Total",

		"labor.new":          "New Entry",
		"labor.stage":        "Stage",
		"labor.role":         "Role",
		"labor.worker_name":  "Worker",
		"labor.hourly_rate":  "Hourly Rate (R$)",
		"labor.hours_worked": "Hours",
		"labor.date":         "Date",
		"labor.cost":         "Total",

		"expense.new":         "New Expense",
		"expense.description": "Description",
		"expense.category":    "Category",
		"expense.amount":      "Amount (R$)",
		"expense.date":        "Date",

		"action.add":     "Add",
		"action.create":  "Create",
		"action.delete":  "Delete",
		"action.cancel":  "Cancel",
		"action.open":    "Open",
		"action.print":   "Print / PDF",
		"action.export":  "Export XLSX",
		"action.analyze": "Analyze risks with AI",

		"advisor.title":   "Risk Analysis (AI)",
		"advisor.loading": "Analyzing...",

		"project_status.planning":    "Planning",
		"project_status.in_progress": "In Progress",
		"project_status.completed":   "Completed",
		"project_status.paused":      "Paused",

		"stage_status.pending":     "Pending",
		"stage_status.in_progress": "In Progress",
		"stage_status.completed":   "Completed",

		"category.rental":    "Rental",
		"category.fees":      "Fees",
		"category.transport": "Transport",
		"category.food":      "Food",
		"category.equipment": "Equipment",
		"category.other":     "Other",

		"violation.required":         "Required.",
		"violation.must_be_positive": "Must be greater than zero.",
		"violation.invalid_number":   "Invalid number.",
		"violation.invalid_date":     "Invalid date.",
		"violation.invalid_choice":   "Invalid option.",
		"violation.out_of_range":     "Value out of range.",
		"violation.too_long":         "Text too long.",

		"error.not_found":  "Record not found.",
		"error.internal":   "Internal error. Please try again.",
		"error.validation": "Please check the highlighted fields.",
		"error.rate_limit": "Too many requests. Please wait a moment.",

		"toast.project_created": "Project created.",
		"toast.project_deleted": "Project deleted.",
		"toast.stage_created":   "Stage added.",
		"toast.stage_updated":   "Stage status updated.",
		"toast.entry_added":     "Entry added.",
		"toast.entry_deleted":   "Entry deleted.",

		"list.empty": "Nothing here yet.",
	},
}
