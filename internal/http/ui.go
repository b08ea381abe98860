package http

import nethttp "net/http"

func dashboardHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

func faviconHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.WriteHeader(nethttp.StatusNoContent)
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Enterprise Audit Dashboard</title>
  <script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>
  <style>
    @import url("https://fonts.googleapis.com/css?family=Open+Sans:300,400,600,700");

    :root {
      --brand: #1a365d;
      --brand-2: #2c5282;
      --bg: #f7f7f7;
      --paper: #fff;
      --text: #333;
      --muted: #777;
      --line: #ddd;
      --line-soft: #eee;
      --head: #f0f0f0;
      --excellent: #1e8e3e;
      --good: #7cb342;
      --warning: #f9a825;
      --critical: #c62828;
      --severity-high: #e65100;
      --severity-medium: #f9a825;
      --severity-low: #1e8e3e;
      --info: #1565c0;
    }

    * { box-sizing: border-box; }

    body {
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font-family: "Open Sans", "Helvetica Neue", Helvetica, Arial, sans-serif;
      font-size: 14px;
      line-height: 1.42857143;
    }

    a { color: #428bca; text-decoration: none; }
    a:hover { color: #2a6496; text-decoration: underline; }

    header {
      background: var(--brand);
      color: #fff;
      padding: 14px 24px;
      display: flex;
      align-items: center;
      justify-content: space-between;
      flex-wrap: wrap;
      gap: 10px;
    }
    header h1 { margin: 0; font-size: 20px; font-weight: 600; }
    header .controls { display: flex; gap: 10px; align-items: center; }
    header select {
      padding: 5px 8px; border-radius: 4px; border: 1px solid var(--brand-2);
      background: #fff; font-size: 13px;
    }

    nav {
      background: var(--brand-2);
      display: flex;
      flex-wrap: wrap;
      padding: 0 14px;
    }
    nav button {
      background: transparent; border: none; color: #dbe7f3;
      padding: 12px 16px; font-size: 14px; cursor: pointer;
      border-bottom: 3px solid transparent;
    }
    nav button:hover { color: #fff; }
    nav button.active { color: #fff; border-bottom-color: #fff; font-weight: 600; }

    main { padding: 20px 24px; max-width: 1400px; margin: 0 auto; }

    .view { display: none; }
    .view.active { display: block; }

    .cards { display: flex; gap: 14px; flex-wrap: wrap; margin-bottom: 18px; }
    .card {
      background: var(--paper); border: 1px solid var(--line); border-radius: 6px;
      padding: 14px 18px; min-width: 180px; flex: 1;
    }
    .card .label { color: var(--muted); font-size: 12px; text-transform: uppercase; }
    .card .value { font-size: 26px; font-weight: 600; margin-top: 4px; }
    .card .sub { color: var(--muted); font-size: 12px; margin-top: 2px; }

    .panel {
      background: var(--paper); border: 1px solid var(--line); border-radius: 6px;
      padding: 16px; margin-bottom: 18px;
    }
    .panel h2 { margin: 0 0 12px; font-size: 16px; }

    .toolbar { display: flex; flex-wrap: wrap; gap: 10px; margin-bottom: 12px; align-items: center; }
    .toolbar input, .toolbar select {
      padding: 6px 8px; border: 1px solid var(--line); border-radius: 4px; font-size: 13px;
    }
    .toolbar .spacer { flex: 1; }
    .toolbar button {
      padding: 6px 12px; border: 1px solid var(--brand-2); border-radius: 4px;
      background: var(--brand-2); color: #fff; font-size: 13px; cursor: pointer;
    }
    .toolbar button.secondary { background: #fff; color: var(--brand-2); }
    .toolbar button:disabled { opacity: 0.5; cursor: not-allowed; }

    table { width: 100%; border-collapse: collapse; background: var(--paper); }
    th, td { padding: 8px 10px; border-bottom: 1px solid var(--line-soft); text-align: left; }
    th { background: var(--head); cursor: pointer; user-select: none; white-space: nowrap; }
    th .arrow { font-size: 10px; color: var(--muted); margin-left: 4px; }
    tr:hover td { background: #fafcff; }
    td.num, th.num { text-align: right; }

    .band { padding: 2px 8px; border-radius: 10px; color: #fff; font-size: 12px; display: inline-block; }
    .band.excellent { background: var(--excellent); }
    .band.good { background: var(--good); }
    .band.warning { background: var(--warning); color: #333; }
    .band.critical { background: var(--critical); }

    .sev { padding: 2px 8px; border-radius: 10px; color: #fff; font-size: 12px; display: inline-block; }
    .sev.critical { background: var(--critical); }
    .sev.high { background: var(--severity-high); }
    .sev.medium { background: var(--severity-medium); color: #333; }
    .sev.low { background: var(--severity-low); }
    .sev.unknown { background: var(--muted); }

    .trend-improving { color: var(--excellent); }
    .trend-declining { color: var(--critical); }
    .trend-stable { color: var(--muted); }

    .heat td.cell { text-align: center; color: #fff; font-weight: 600; }
    .heat td.cell.na { background: var(--line-soft); color: var(--muted); font-weight: 400; }

    .chart { width: 100%; height: 320px; }

    .banner {
      display: none; background: #f2dede; color: #a94442;
      border: 1px solid #ebccd1; border-radius: 6px;
      padding: 14px 18px; margin-bottom: 18px;
    }
    .banner.show { display: block; }
    .banner button { margin-left: 12px; }

    .notice { color: var(--muted); font-size: 13px; margin: 8px 0; }
    .compare-msg { color: var(--critical); font-size: 13px; display: none; }
    .compare-msg.show { display: inline; }

    footer { color: var(--muted); font-size: 12px; padding: 16px 24px; text-align: center; }
  </style>
</head>
<body>
  <header>
    <h1>Enterprise Audit Dashboard</h1>
    <div class="controls">
      <label for="quarter" style="font-size:13px">Quarter</label>
      <select id="quarter"></select>
    </div>
  </header>

  <nav id="tabs">
    <button data-view="executive" class="active">Executive</button>
    <button data-view="business-units">Business Units</button>
    <button data-view="risk-analysis">Risk Analysis</button>
    <button data-view="compliance">Compliance</button>
    <button data-view="findings">Findings</button>
    <button data-view="trends">Trends</button>
  </nav>

  <main>
    <div id="error-banner" class="banner">
      <span id="error-text"></span>
      <button onclick="retryLoad()">Retry</button>
    </div>
    <div id="missing-notice" class="notice" style="display:none"></div>

    <!-- Executive -->
    <section id="view-executive" class="view active">
      <div class="cards">
        <div class="card"><div class="label">Enterprise Risk Score</div><div class="value" id="exec-score">&ndash;</div><div class="sub" id="exec-score-band"></div></div>
        <div class="card"><div class="label">Compliance Rate</div><div class="value" id="exec-compliance">&ndash;</div></div>
        <div class="card"><div class="label">Active Findings</div><div class="value" id="exec-findings">&ndash;</div></div>
        <div class="card"><div class="label">Avg Unit Score</div><div class="value" id="exec-avg">&ndash;</div><div class="sub" id="exec-avg-sub"></div></div>
      </div>
      <div class="panel">
        <div class="toolbar">
          <h2 style="margin:0">Unit Scores</h2>
          <div class="spacer"></div>
          <button class="secondary" onclick="openReport('executive')">Print report</button>
        </div>
        <div id="chart-exec-scores" class="chart"></div>
      </div>
      <div class="panel">
        <h2>Score Distribution</h2>
        <div id="chart-exec-distribution" class="chart"></div>
      </div>
    </section>

    <!-- Business Units -->
    <section id="view-business-units" class="view">
      <div class="panel">
        <div class="toolbar">
          <input id="bu-search" type="search" placeholder="Search units" oninput="renderUnitsTable()" />
          <select id="bu-category" onchange="renderUnitsTable()"><option value="">All categories</option></select>
          <select id="bu-tier" onchange="renderUnitsTable()">
            <option value="">All risk tiers</option>
            <option value="high">high</option>
            <option value="medium">medium</option>
            <option value="low">low</option>
          </select>
          <span class="compare-msg" id="compare-msg"></span>
          <div class="spacer"></div>
          <button id="compare-btn" onclick="runCompare()">Compare selected</button>
          <button class="secondary" onclick="exportCSV('business-units')">Export CSV</button>
          <button class="secondary" onclick="openReport('business-units')">Print report</button>
        </div>
        <table id="bu-table">
          <thead><tr>
            <th style="cursor:default"></th>
            <th onclick="sortUnits('name')">Business Unit<span class="arrow" id="arr-name"></span></th>
            <th onclick="sortUnits('category')">Category<span class="arrow" id="arr-category"></span></th>
            <th class="num" onclick="sortUnits('headcount')">Headcount<span class="arrow" id="arr-headcount"></span></th>
            <th onclick="sortUnits('risk_tier')">Risk Tier<span class="arrow" id="arr-risk_tier"></span></th>
            <th class="num" onclick="sortUnits('overall_score')">Score<span class="arrow" id="arr-overall_score"></span></th>
            <th onclick="sortUnits('trend')">Trend<span class="arrow" id="arr-trend"></span></th>
            <th class="num" onclick="sortUnits('open_findings')">Open Findings<span class="arrow" id="arr-open_findings"></span></th>
          </tr></thead>
          <tbody></tbody>
        </table>
      </div>
      <div class="panel" id="compare-panel" style="display:none">
        <h2>Unit Comparison</h2>
        <div id="compare-table"></div>
        <div class="toolbar" style="margin-top:10px">
          <button class="secondary" onclick="exportCompareCSV()">Export comparison CSV</button>
        </div>
      </div>
      <div class="panel" id="unit-drill" style="display:none">
        <h2 id="drill-title">Unit Detail</h2>
        <div id="drill-body"></div>
      </div>
    </section>

    <!-- Risk Analysis -->
    <section id="view-risk-analysis" class="view">
      <div class="cards">
        <div class="card"><div class="label">Sanctions Coverage</div><div class="value" id="risk-sanctions">&ndash;</div></div>
        <div class="card"><div class="label">Model Accuracy</div><div class="value" id="risk-model">&ndash;</div></div>
        <div class="card"><div class="label">False Positive Rate</div><div class="value" id="risk-fp">&ndash;</div></div>
        <div class="card"><div class="label">Review Efficiency</div><div class="value" id="risk-review">&ndash;</div></div>
      </div>
      <div class="panel">
        <div class="toolbar">
          <h2 style="margin:0">Top Units by Fraud Loss Rate</h2>
          <div class="spacer"></div>
          <button class="secondary" onclick="openReport('risk-analysis')">Print report</button>
        </div>
        <div id="chart-risk-fraud" class="chart"></div>
      </div>
      <div class="panel">
        <h2>Top Units by AML Alert Volume</h2>
        <div id="chart-risk-alerts" class="chart"></div>
      </div>
      <div class="panel">
        <h2>Risk Heat Map</h2>
        <div id="heatmap-wrap"></div>
      </div>
    </section>

    <!-- Compliance -->
    <section id="view-compliance" class="view">
      <div class="cards">
        <div class="card"><div class="label">Training Completion</div><div class="value" id="comp-training">&ndash;</div><div class="sub" id="comp-training-sub"></div></div>
        <div class="card"><div class="label">SAR Timeliness</div><div class="value" id="comp-sar-time">&ndash;</div></div>
        <div class="card"><div class="label">SAR Quality</div><div class="value" id="comp-sar-quality">&ndash;</div></div>
        <div class="card"><div class="label">SAR Volume</div><div class="value" id="comp-sar-volume">&ndash;</div></div>
      </div>
      <div class="cards">
        <div class="card"><div class="label">Policy Currency</div><div class="value" id="comp-policy">&ndash;</div></div>
        <div class="card"><div class="label">Policy Acknowledgment</div><div class="value" id="comp-ack">&ndash;</div></div>
        <div class="card"><div class="label">KYC New Completion</div><div class="value" id="comp-kyc-new">&ndash;</div></div>
        <div class="card"><div class="label">KYC Review On-Time</div><div class="value" id="comp-kyc-review">&ndash;</div></div>
      </div>
      <div class="panel">
        <div class="toolbar">
          <h2 style="margin:0">Compliance Averages</h2>
          <div class="spacer"></div>
          <button class="secondary" onclick="openReport('compliance')">Print report</button>
        </div>
        <div id="chart-compliance" class="chart"></div>
      </div>
    </section>

    <!-- Findings -->
    <section id="view-findings" class="view">
      <div class="cards">
        <div class="card"><div class="label">Total Findings</div><div class="value" id="find-total">&ndash;</div></div>
        <div class="card"><div class="label">Open</div><div class="value" id="find-open">&ndash;</div></div>
        <div class="card"><div class="label">Critical</div><div class="value" id="find-critical">&ndash;</div></div>
        <div class="card"><div class="label">Testing Pass Rate</div><div class="value" id="find-pass">&ndash;</div></div>
      </div>
      <div class="panel">
        <div class="toolbar">
          <h2 style="margin:0">By Severity</h2>
          <div class="spacer"></div>
          <button class="secondary" onclick="exportCSV('findings')">Export CSV</button>
          <button class="secondary" onclick="openReport('findings')">Print report</button>
        </div>
        <div id="chart-find-severity" class="chart"></div>
      </div>
      <div class="panel">
        <div class="toolbar">
          <input id="find-search" type="search" placeholder="Search findings" oninput="renderFindingsTable()" />
          <select id="find-severity" onchange="renderFindingsTable()">
            <option value="">All severities</option>
            <option>critical</option><option>high</option><option>medium</option><option>low</option>
          </select>
          <select id="find-status" onchange="renderFindingsTable()">
            <option value="">All statuses</option>
            <option>open</option><option>in-progress</option><option>closed</option>
          </select>
        </div>
        <table id="find-table">
          <thead><tr>
            <th>Business Unit</th><th>Finding</th><th>Severity</th>
            <th>Category</th><th>Status</th><th>Due Date</th><th>Owner</th>
          </tr></thead>
          <tbody></tbody>
        </table>
      </div>
    </section>

    <!-- Trends -->
    <section id="view-trends" class="view">
      <div class="panel">
        <div class="toolbar">
          <h2 style="margin:0">Historical Trends</h2>
          <div class="spacer"></div>
          <button class="secondary" onclick="openReport('trends')">Print report</button>
        </div>
        <div id="chart-trends-historical" class="chart" style="height:380px"></div>
      </div>
      <div class="panel">
        <h2>Projected Movement</h2>
        <div class="notice">Interpolated from the current quarter; refreshed on every visit.</div>
        <div id="chart-trends-synthetic" class="chart"></div>
      </div>
    </section>
  </main>

  <footer>Fixture-driven audit metrics demo. All figures are simulated.</footer>

<script>
"use strict";

const state = {
  activeView: "executive",
  quarter: "",
  quarters: [],
  chartsLoaded: { executive: false, "risk-analysis": false, trends: false },
  units: [],
  unitsSort: { key: "name", dir: 1 },
  findings: [],
  compareSelection: new Set(),
};

// One chart instance per container id. Rebinding disposes the old instance
// first, otherwise echarts leaks canvases on re-render.
const chartRegistry = {};
function bindChart(id) {
  const el = document.getElementById(id);
  if (chartRegistry[id]) {
    chartRegistry[id].dispose();
    delete chartRegistry[id];
  }
  const chart = echarts.init(el);
  chartRegistry[id] = chart;
  return chart;
}

function bandFor(score) {
  if (score >= 90) return "excellent";
  if (score >= 80) return "good";
  if (score >= 70) return "warning";
  return "critical";
}
const bandColors = { excellent: "#1e8e3e", good: "#7cb342", warning: "#f9a825", critical: "#c62828" };
const severityColors = { critical: "#c62828", high: "#e65100", medium: "#f9a825", low: "#1e8e3e" };

function fmtPct(v) { return v == null ? "-" : v.toFixed(1) + "%"; }
function fmtScore(v) { return v == null ? "-" : v.toFixed(1); }
function esc(s) {
  return String(s).replace(/&/g, "&amp;").replace(/</g, "&lt;").replace(/>/g, "&gt;").replace(/"/g, "&quot;");
}

async function fetchView(view) {
  const resp = await fetch("/api/v1/views/" + view + "?quarter=" + encodeURIComponent(state.quarter));
  const body = await resp.json();
  if (!resp.ok) throw new Error(body.error || ("request failed: " + resp.status));
  return body;
}

function showError(msg) {
  document.getElementById("error-text").textContent = msg;
  document.getElementById("error-banner").classList.add("show");
}
function clearError() {
  document.getElementById("error-banner").classList.remove("show");
}
function showMissing(missing) {
  const el = document.getElementById("missing-notice");
  if (missing && missing.length) {
    el.style.display = "block";
    el.textContent = "Unavailable this quarter: " + missing.join(", ") + ". Figures exclude these units.";
  } else {
    el.style.display = "none";
  }
}

function retryLoad() {
  clearError();
  activateView(state.activeView, true);
}

// Tab switching. Summary cards refresh on every activation; charts are built
// once per quarter and kept until the quarter changes.
function activateView(view, force) {
  state.activeView = view;
  document.querySelectorAll("nav button").forEach(b => {
    b.classList.toggle("active", b.dataset.view === view);
  });
  document.querySelectorAll(".view").forEach(v => {
    v.classList.toggle("active", v.id === "view-" + view);
  });

  switch (view) {
    case "executive": loadExecutive(force); break;
    case "business-units": loadBusinessUnits(); break;
    case "risk-analysis": loadRisk(force); break;
    case "compliance": loadCompliance(); break;
    case "findings": loadFindings(); break;
    case "trends": loadTrends(force); break;
  }
}

async function loadExecutive(force) {
  try {
    const body = await fetchView("executive");
    clearError();
    showMissing(body.meta.missing);
    const s = body.data.summary;
    document.getElementById("exec-score").textContent = fmtScore(s.enterprise_risk_score);
    const band = bandFor(s.enterprise_risk_score);
    document.getElementById("exec-score-band").innerHTML =
      '<span class="band ' + band + '">' + band + "</span>";
    document.getElementById("exec-compliance").textContent = fmtPct(s.compliance_rate);
    document.getElementById("exec-findings").textContent = s.active_findings;
    document.getElementById("exec-avg").textContent = fmtScore(s.avg_unit_score.mean);
    document.getElementById("exec-avg-sub").textContent =
      s.avg_unit_score.samples + " of " + s.unit_count + " units reporting";

    if (!state.chartsLoaded.executive || force) {
      await renderExecutiveCharts(body.data);
      state.chartsLoaded.executive = true;
    }
  } catch (err) {
    showError("Executive summary failed to load: " + err.message);
  }
}

async function renderExecutiveCharts(data) {
  const body = await fetchView("business-units");
  const scored = body.data.units.filter(u => u.overall_score != null);

  const bar = bindChart("chart-exec-scores");
  bar.setOption({
    tooltip: {},
    grid: { left: 40, right: 20, bottom: 90 },
    xAxis: { type: "category", data: scored.map(u => u.name), axisLabel: { rotate: 40 } },
    yAxis: { type: "value", min: 0, max: 100 },
    series: [{
      type: "bar",
      data: scored.map(u => ({ value: u.overall_score, itemStyle: { color: bandColors[bandFor(u.overall_score)] } })),
    }],
  });

  const dist = data.score_distribution || {};
  const pie = bindChart("chart-exec-distribution");
  pie.setOption({
    tooltip: {},
    series: [{
      type: "pie", radius: "60%",
      data: ["excellent", "good", "warning", "critical"]
        .filter(b => dist[b])
        .map(b => ({ name: b, value: dist[b], itemStyle: { color: bandColors[b] } })),
    }],
  });
}

async function loadBusinessUnits() {
  try {
    const body = await fetchView("business-units");
    clearError();
    showMissing(body.meta.missing);
    state.units = body.data.units;

    const sel = document.getElementById("bu-category");
    const current = sel.value;
    sel.innerHTML = '<option value="">All categories</option>' +
      body.data.categories.map(c => "<option" + (c === current ? " selected" : "") + ">" + esc(c) + "</option>").join("");
    renderUnitsTable();
  } catch (err) {
    showError("Business units failed to load: " + err.message);
  }
}

// Search matches the row's full rendered text, not just the name cell.
function rowText(cells) {
  return cells.map(v => v == null ? "" : String(v)).join(" ").toLowerCase();
}

function filteredUnits() {
  const q = document.getElementById("bu-search").value.trim().toLowerCase();
  const cat = document.getElementById("bu-category").value;
  const tier = document.getElementById("bu-tier").value;
  return state.units.filter(u => {
    if (cat && u.category !== cat) return false;
    if (tier && u.risk_tier !== tier) return false;
    if (q && !rowText([u.name, u.id, u.category, u.headcount, u.risk_tier,
        u.overall_score == null ? "" : u.overall_score.toFixed(1), u.trend, u.open_findings]).includes(q)) {
      return false;
    }
    return true;
  });
}

function sortUnits(key) {
  if (state.unitsSort.key === key) {
    state.unitsSort.dir = -state.unitsSort.dir;
  } else {
    state.unitsSort = { key: key, dir: 1 };
  }
  renderUnitsTable();
}

function renderUnitsTable() {
  const key = state.unitsSort.key;
  const dir = state.unitsSort.dir;
  const rows = filteredUnits().slice().sort((a, b) => {
    let av = a[key], bv = b[key];
    if (av == null) return 1;
    if (bv == null) return -1;
    if (typeof av === "string") { av = av.toLowerCase(); bv = String(bv).toLowerCase(); }
    return av < bv ? -dir : av > bv ? dir : 0;
  });

  document.querySelectorAll("#bu-table th .arrow").forEach(el => el.textContent = "");
  const arrow = document.getElementById("arr-" + key);
  if (arrow) arrow.textContent = dir > 0 ? "▲" : "▼";

  const tbody = document.querySelector("#bu-table tbody");
  tbody.innerHTML = rows.map(u => {
    const checked = state.compareSelection.has(u.id) ? " checked" : "";
    const band = u.overall_score == null ? "-" :
      '<span class="band ' + bandFor(u.overall_score) + '">' + u.overall_score.toFixed(1) + "</span>";
    return "<tr>" +
      "<td><input type=\"checkbox\" onchange=\"toggleCompare('" + u.id + "', this.checked)\"" + checked + "></td>" +
      "<td><a href=\"#\" onclick=\"drillDown('" + u.id + "');return false\">" + esc(u.name) + "</a></td>" +
      "<td>" + esc(u.category) + "</td>" +
      '<td class="num">' + u.headcount.toLocaleString() + "</td>" +
      "<td>" + esc(u.risk_tier) + "</td>" +
      '<td class="num">' + band + "</td>" +
      '<td class="trend-' + esc(u.trend) + '">' + esc(u.trend) + "</td>" +
      '<td class="num">' + u.open_findings + "</td>" +
      "</tr>";
  }).join("");
}

function toggleCompare(id, checked) {
  if (checked) state.compareSelection.add(id);
  else state.compareSelection.delete(id);
  const msg = document.getElementById("compare-msg");
  if (state.compareSelection.size > 5) {
    msg.textContent = "Select at most 5 units to compare.";
    msg.classList.add("show");
  } else {
    msg.classList.remove("show");
  }
}

async function runCompare() {
  const ids = Array.from(state.compareSelection);
  const msg = document.getElementById("compare-msg");
  if (ids.length < 2 || ids.length > 5) {
    msg.textContent = "Select between 2 and 5 business units to compare (got " + ids.length + ").";
    msg.classList.add("show");
    return;
  }
  msg.classList.remove("show");

  const resp = await fetch("/api/v1/units/compare?quarter=" + encodeURIComponent(state.quarter) +
    "&ids=" + encodeURIComponent(ids.join(",")));
  const body = await resp.json();
  if (!resp.ok) {
    msg.textContent = body.error || "comparison failed";
    msg.classList.add("show");
    return;
  }

  const rows = body.data;
  const metrics = [
    ["Category", u => esc(u.category)],
    ["Headcount", u => u.headcount.toLocaleString()],
    ["Risk Tier", u => esc(u.risk_tier)],
    ["Overall Score", u => u.overall_score == null ? "-" :
      '<span class="band ' + bandFor(u.overall_score) + '">' + u.overall_score.toFixed(1) + "</span>"],
    ["Trend", u => '<span class="trend-' + esc(u.trend) + '">' + esc(u.trend) + "</span>"],
    ["Open Findings", u => u.open_findings],
    ["Training Completion", u => fmtPct(u.training_completion)],
  ];
  let html = "<table><thead><tr><th>Metric</th>" +
    rows.map(u => "<th>" + esc(u.name) + "</th>").join("") + "</tr></thead><tbody>";
  for (const [label, cell] of metrics) {
    html += "<tr><td>" + label + "</td>" + rows.map(u => "<td>" + cell(u) + "</td>").join("") + "</tr>";
  }
  html += "</tbody></table>";
  document.getElementById("compare-table").innerHTML = html;
  document.getElementById("compare-panel").style.display = "block";
}

async function drillDown(id) {
  const resp = await fetch("/api/v1/units/" + encodeURIComponent(id) +
    "?quarter=" + encodeURIComponent(state.quarter));
  const body = await resp.json();
  if (!resp.ok) { showError(body.error || "unit detail failed"); return; }
  const u = body.data;

  document.getElementById("drill-title").textContent = u.name + " (" + state.quarter + ")";
  const score = u.executiveScorecard && u.executiveScorecard.overallScore ? u.executiveScorecard.overallScore.value : null;
  const findings = (u.auditFindings && u.auditFindings.findings) || [];
  let html = '<div class="cards">';
  html += '<div class="card"><div class="label">Overall Score</div><div class="value">' + fmtScore(score) + "</div></div>";
  html += '<div class="card"><div class="label">Headcount</div><div class="value">' + (u.headcount == null ? "-" : u.headcount.toLocaleString()) + "</div></div>";
  html += '<div class="card"><div class="label">Risk Tier</div><div class="value">' + esc(u.riskTier || "-") + "</div></div>";
  html += '<div class="card"><div class="label">Findings</div><div class="value">' + findings.length + "</div></div>";
  html += "</div>";
  if (findings.length) {
    html += "<table><thead><tr><th>Finding</th><th>Severity</th><th>Status</th><th>Due</th></tr></thead><tbody>" +
      findings.map(f => "<tr><td>" + esc(f.title || f.id) + '</td><td><span class="sev ' + esc((f.severity || "unknown").toLowerCase()) + '">' +
        esc(f.severity || "unknown") + "</span></td><td>" + esc(f.status || "") + "</td><td>" + esc(f.dueDate || "") + "</td></tr>").join("") +
      "</tbody></table>";
  }
  document.getElementById("drill-body").innerHTML = html;
  document.getElementById("unit-drill").style.display = "block";
}

async function loadRisk(force) {
  try {
    const body = await fetchView("risk-analysis");
    clearError();
    showMissing(body.meta.missing);
    const d = body.data;
    document.getElementById("risk-sanctions").textContent = fmtPct(d.sanctions_coverage.mean);
    document.getElementById("risk-model").textContent = fmtPct(d.model_accuracy.mean);
    document.getElementById("risk-fp").textContent = fmtPct(d.false_positive_rate.mean);
    document.getElementById("risk-review").textContent = fmtPct(d.review_efficiency.mean);

    renderHeatMap(d.heat_map);

    if (!state.chartsLoaded["risk-analysis"] || force) {
      renderRankingBar("chart-risk-fraud", d.top_fraud_loss, v => (v * 100).toFixed(4) + "%");
      renderRankingBar("chart-risk-alerts", d.top_alert_volume, v => v.toLocaleString());
      state.chartsLoaded["risk-analysis"] = true;
    }
  } catch (err) {
    showError("Risk analysis failed to load: " + err.message);
  }
}

function renderRankingBar(id, ranked, fmt) {
  const chart = bindChart(id);
  chart.setOption({
    tooltip: { formatter: p => p.name + ": " + fmt(p.value) },
    grid: { left: 160, right: 30 },
    xAxis: { type: "value" },
    yAxis: { type: "category", data: ranked.map(r => r.unit_name).reverse() },
    series: [{ type: "bar", data: ranked.map(r => r.value).reverse(), itemStyle: { color: "#2c5282" } }],
  });
}

function renderHeatMap(hm) {
  let html = '<table class="heat"><thead><tr><th>Business Unit</th>' +
    hm.categories.map(c => "<th>" + esc(c) + "</th>").join("") + "</tr></thead><tbody>";
  for (const row of hm.rows) {
    html += "<tr><td>" + esc(row.unit_name) + "</td>" + row.scores.map(score => {
      if (score == null) return '<td class="cell na">n/a</td>';
      return '<td class="cell" style="background:' + bandColors[bandFor(score)] + '">' + score.toFixed(0) + "</td>";
    }).join("") + "</tr>";
  }
  html += "</tbody></table>";
  document.getElementById("heatmap-wrap").innerHTML = html;
}

async function loadCompliance() {
  try {
    const body = await fetchView("compliance");
    clearError();
    showMissing(body.meta.missing);
    const d = body.data;
    document.getElementById("comp-training").textContent = fmtPct(d.training_completion.mean);
    document.getElementById("comp-training-sub").textContent = d.training_completion.samples + " units reporting";
    document.getElementById("comp-sar-time").textContent = fmtPct(d.sar_timeliness.mean);
    document.getElementById("comp-sar-quality").textContent = fmtPct(d.sar_quality.mean);
    document.getElementById("comp-sar-volume").textContent = d.sar_volume.toLocaleString();
    document.getElementById("comp-policy").textContent = fmtPct(d.policy_currency.mean);
    document.getElementById("comp-ack").textContent = fmtPct(d.policy_acknowledgment.mean);
    document.getElementById("comp-kyc-new").textContent = fmtPct(d.kyc_new_completion.mean);
    document.getElementById("comp-kyc-review").textContent = fmtPct(d.kyc_review_on_time.mean);

    const labels = ["Training", "SAR timeliness", "SAR quality", "Policy currency", "Acknowledgment", "KYC new", "KYC review"];
    const values = [d.training_completion.mean, d.sar_timeliness.mean, d.sar_quality.mean,
      d.policy_currency.mean, d.policy_acknowledgment.mean, d.kyc_new_completion.mean, d.kyc_review_on_time.mean];
    const chart = bindChart("chart-compliance");
    chart.setOption({
      tooltip: {},
      grid: { left: 40, bottom: 60 },
      xAxis: { type: "category", data: labels, axisLabel: { rotate: 25 } },
      yAxis: { type: "value", min: 0, max: 100 },
      series: [{
        type: "bar",
        data: values.map(v => ({ value: v, itemStyle: { color: bandColors[bandFor(v)] } })),
      }],
    });
  } catch (err) {
    showError("Compliance metrics failed to load: " + err.message);
  }
}

async function loadFindings() {
  try {
    const body = await fetchView("findings");
    clearError();
    showMissing(body.meta.missing);
    const rollup = body.data.rollup;
    state.findings = body.data.findings;

    document.getElementById("find-total").textContent = rollup.total;
    document.getElementById("find-open").textContent = rollup.by_status.open || 0;
    document.getElementById("find-critical").textContent = rollup.by_severity.critical || 0;
    document.getElementById("find-pass").textContent = fmtPct(rollup.testing_pass.mean);

    const pie = bindChart("chart-find-severity");
    pie.setOption({
      tooltip: {},
      series: [{
        type: "pie", radius: "60%",
        data: ["critical", "high", "medium", "low"]
          .filter(sv => rollup.by_severity[sv])
          .map(sv => ({ name: sv, value: rollup.by_severity[sv], itemStyle: { color: severityColors[sv] } })),
      }],
    });

    renderFindingsTable();
  } catch (err) {
    showError("Findings failed to load: " + err.message);
  }
}

function renderFindingsTable() {
  const q = document.getElementById("find-search").value.trim().toLowerCase();
  const sev = document.getElementById("find-severity").value;
  const status = document.getElementById("find-status").value;
  const rows = state.findings.filter(f => {
    if (sev && f.severity !== sev) return false;
    if (status && f.status !== status) return false;
    if (q && !rowText([f.unit_name, f.title || f.id, f.severity, f.category,
        f.status, f.due_date, f.owner]).includes(q)) {
      return false;
    }
    return true;
  });
  document.querySelector("#find-table tbody").innerHTML = rows.map(f =>
    "<tr><td>" + esc(f.unit_name) + "</td><td>" + esc(f.title || f.id) +
    '</td><td><span class="sev ' + esc(f.severity) + '">' + esc(f.severity) + "</span></td><td>" +
    esc(f.category) + "</td><td>" + esc(f.status) + "</td><td>" + esc(f.due_date) + "</td><td>" + esc(f.owner) + "</td></tr>"
  ).join("");
}

async function loadTrends(force) {
  try {
    const body = await fetchView("trends");
    clearError();
    showMissing(body.meta.missing);

    if (!state.chartsLoaded.trends || force) {
      renderSeriesChart("chart-trends-historical", body.data.historical);
      state.chartsLoaded.trends = true;
    }
    // Projections are re-interpolated from live aggregates on every visit.
    renderSeriesChart("chart-trends-synthetic", body.data.synthetic);
  } catch (err) {
    showError("Trends failed to load: " + err.message);
  }
}

function renderSeriesChart(id, seriesList) {
  if (!seriesList || !seriesList.length) return;
  const chart = bindChart(id);
  chart.setOption({
    tooltip: { trigger: "axis" },
    legend: { data: seriesList.map(s => s.name) },
    grid: { left: 50, right: 30, bottom: 40 },
    xAxis: { type: "category", data: seriesList[0].labels },
    yAxis: { type: "value", scale: true },
    series: seriesList.map(s => ({ name: s.name, type: "line", smooth: true, data: s.values })),
  });
}

function exportCSV(view) {
  let url = "/api/v1/export/csv?view=" + encodeURIComponent(view) +
    "&quarter=" + encodeURIComponent(state.quarter);
  if (view === "business-units") {
    const visible = filteredUnits();
    if (visible.length < state.units.length) {
      url += "&ids=" + encodeURIComponent(visible.map(u => u.id).join(","));
    }
  }
  window.location.href = url;
}

function exportCompareCSV() {
  const ids = Array.from(state.compareSelection);
  if (ids.length < 2 || ids.length > 5) return;
  window.location.href = "/api/v1/export/csv?view=compare&quarter=" + encodeURIComponent(state.quarter) +
    "&ids=" + encodeURIComponent(ids.join(","));
}

function openReport(view) {
  window.open("/reports/" + encodeURIComponent(view) + "?quarter=" + encodeURIComponent(state.quarter), "_blank");
}

function onQuarterChange() {
  state.quarter = document.getElementById("quarter").value;
  state.chartsLoaded = { executive: false, "risk-analysis": false, trends: false };
  state.compareSelection.clear();
  document.getElementById("compare-panel").style.display = "none";
  document.getElementById("unit-drill").style.display = "none";
  activateView(state.activeView, true);
}

async function boot() {
  const resp = await fetch("/api/v1/units");
  const body = await resp.json();
  state.quarters = body.meta.quarters;
  state.quarter = body.meta.default_quarter;

  const sel = document.getElementById("quarter");
  sel.innerHTML = state.quarters.map(q =>
    '<option value="' + q + '"' + (q === state.quarter ? " selected" : "") + ">" + q.toUpperCase() + "</option>").join("");
  sel.addEventListener("change", onQuarterChange);

  document.querySelectorAll("nav button").forEach(b => {
    b.addEventListener("click", () => activateView(b.dataset.view, false));
  });

  window.addEventListener("resize", () => {
    Object.values(chartRegistry).forEach(c => c.resize());
  });

  activateView("executive", true);
}

boot();
</script>
</body>
</html>
`
