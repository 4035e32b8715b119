package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS daily_actuals (
    company_id           TEXT NOT NULL,
    date                 TEXT NOT NULL,
    opening_balance      REAL NOT NULL DEFAULT 0,
    cash_in              REAL NOT NULL DEFAULT 0,
    cash_out             REAL NOT NULL DEFAULT 0,
    net_cash             REAL NOT NULL DEFAULT 0,
    closing_balance      REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (company_id, date)
);

CREATE TABLE IF NOT EXISTS bank_transactions (
    id                   TEXT PRIMARY KEY,
    company_id           TEXT NOT NULL,
    transaction_date     TEXT NOT NULL,
    amount               REAL NOT NULL,
    direction            TEXT,
    description          TEXT,
    category             TEXT
);

CREATE TABLE IF NOT EXISTS forecast_runs (
    id                   TEXT PRIMARY KEY,
    company_id           TEXT NOT NULL,
    scenario_id          TEXT,
    parameters_id        TEXT,
    run_label            TEXT NOT NULL,
    run_at               TEXT NOT NULL,
    assumptions          TEXT
);

CREATE TABLE IF NOT EXISTS daily_forecasts (
    run_id                TEXT NOT NULL REFERENCES forecast_runs(id) ON DELETE CASCADE,
    company_id            TEXT NOT NULL,
    date                  TEXT NOT NULL,
    base_inflows          REAL NOT NULL DEFAULT 0,
    base_outflows         REAL NOT NULL DEFAULT 0,
    base_net_cash         REAL NOT NULL DEFAULT 0,
    base_closing_balance  REAL NOT NULL DEFAULT 0,
    best_inflows          REAL NOT NULL DEFAULT 0,
    best_outflows         REAL NOT NULL DEFAULT 0,
    best_net_cash         REAL NOT NULL DEFAULT 0,
    best_closing_balance  REAL NOT NULL DEFAULT 0,
    worst_inflows         REAL NOT NULL DEFAULT 0,
    worst_outflows        REAL NOT NULL DEFAULT 0,
    worst_net_cash        REAL NOT NULL DEFAULT 0,
    worst_closing_balance REAL NOT NULL DEFAULT 0,
    metadata              TEXT,
    PRIMARY KEY (run_id, date)
);

CREATE TABLE IF NOT EXISTS alert_events (
    id                   TEXT PRIMARY KEY,
    company_id           TEXT NOT NULL,
    forecast_run_id      TEXT,
    alert_type           TEXT NOT NULL,
    severity             TEXT NOT NULL,
    message              TEXT NOT NULL,
    details              TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scenarios (
    id                   TEXT PRIMARY KEY,
    company_id           TEXT NOT NULL,
    name                 TEXT NOT NULL,
    parameters           TEXT,
    is_default           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS invoices_ar (
    id                   TEXT PRIMARY KEY,
    company_id           TEXT NOT NULL,
    customer_name        TEXT,
    issue_date           TEXT,
    due_date             TEXT,
    amount               REAL NOT NULL,
    status               TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bills_ap (
    id                   TEXT PRIMARY KEY,
    company_id           TEXT NOT NULL,
    vendor_name          TEXT,
    issue_date           TEXT,
    due_date             TEXT,
    amount               REAL NOT NULL,
    status               TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS working_capital_snapshots (
    company_id           TEXT NOT NULL,
    as_of_date           TEXT NOT NULL,
    ar_total             REAL NOT NULL DEFAULT 0,
    ap_total             REAL NOT NULL DEFAULT 0,
    ar_0_30              REAL NOT NULL DEFAULT 0,
    ar_31_60             REAL NOT NULL DEFAULT 0,
    ar_61_90             REAL NOT NULL DEFAULT 0,
    ar_90_plus           REAL NOT NULL DEFAULT 0,
    ap_0_30              REAL NOT NULL DEFAULT 0,
    ap_31_60             REAL NOT NULL DEFAULT 0,
    ap_61_90             REAL NOT NULL DEFAULT 0,
    ap_90_plus           REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (company_id, as_of_date)
);

CREATE VIEW IF NOT EXISTS vw_working_capital_summary AS
    SELECT s.* FROM working_capital_snapshots s
    WHERE s.as_of_date = (
        SELECT MAX(w.as_of_date) FROM working_capital_snapshots w
        WHERE w.company_id = s.company_id
    );

CREATE INDEX IF NOT EXISTS idx_transactions_company_date ON bank_transactions(company_id, transaction_date);
CREATE INDEX IF NOT EXISTS idx_forecast_runs_label ON forecast_runs(company_id, run_label, run_at);
CREATE INDEX IF NOT EXISTS idx_alerts_company_created ON alert_events(company_id, created_at);
CREATE INDEX IF NOT EXISTS idx_invoices_company_status ON invoices_ar(company_id, status);
CREATE INDEX IF NOT EXISTS idx_bills_company_status ON bills_ap(company_id, status);
`
