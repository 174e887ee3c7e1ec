package debug

import (
	"io"
	"net/http"
	"powertrain/simulation"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	*Record
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	// 初始化界面
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "动力系统结构",
			Subtitle: c.Name,
		}),
		charts.WithLegendOpts(legend()),
	)
	graph.SetSeriesOptions(
		charts.WithEmphasisOpts(opts.Emphasis{
			Label: &opts.Label{
				Show:     opts.Bool(true),
				Color:    "black",
				Position: "left",
			},
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Curveness: 0.3,
		}),
	)
	lineRpm := newLine("转速曲线", "元件输出转速(rpm)随时间变化")
	linePower := newLine("功率曲线", "元件输出功率(W)随时间变化")
	lineEnergy := newLine("能量曲线", "能量源储存能量(J)随时间变化")
	lineVehicle := newLine("整车曲线", "车速(m/s)和驱动转矩(N·m)随时间变化")
	// 处理数据
	{
		// 元件节点
		graphNodes := make([]opts.GraphNode, len(c.Components))
		for i, n := range c.Components {
			graphNodes[i] = opts.GraphNode{
				Name:     n,
				Category: category(c.Types[i]),
				Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
			}
		}
		// 连接信息
		graphLink := make([]opts.GraphLink, 0, len(c.Links))
		for _, l := range c.Links {
			graphLink = append(graphLink, opts.GraphLink{
				Source: component(l[0]),
				Target: component(l[1]),
			})
		}
		graph.AddSeries("元件列表", graphNodes, graphLink,
			charts.WithGraphChartOpts(opts.GraphChart{
				Categories: []*opts.GraphCategory{
					{Name: "转换元件", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
					{Name: "能量源", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
					{Name: "传动系统", ItemStyle: &opts.ItemStyle{Color: "#000000de"}},
				},
				Roam:               opts.Bool(true),
				Force:              &opts.GraphForce{Repulsion: 80},
				EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(false)},
				FocusNodeAdjacency: opts.Bool(true),
			}))
		fill(lineRpm, c.Time, c.Components, c.Rpm)
		fill(linePower, c.Time, c.Components, c.PowerOut)
		fill(lineEnergy, c.Time, c.Components, c.Energy)
		velocity := make([][]float64, len(c.Vehicle))
		for i, s := range c.Vehicle {
			velocity[i] = []float64{s.Velocity, s.TractiveTorque}
		}
		fill(lineVehicle, c.Time, []string{"车速", "驱动转矩"}, velocity)
	}
	// 构建界面
	page := components.NewPage()
	page.AddCharts(
		graph,
		lineRpm,
		linePower,
		lineEnergy,
		lineVehicle,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

func legend() opts.Legend {
	return opts.Legend{
		Type:   "scroll",
		Orient: "vertical",
		Right:  "10",
		Top:    "20",
		Bottom: "20",
	}
}

func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(legend()),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	return line
}

// fill 按 [步][序列] 的数据生成多条曲线，全为零的序列不显示
func fill(line *charts.Line, time []float64, names []string, data [][]float64) {
	line.SetXAxis(time)
	series := make([]charts.SingleSeries, 0, len(names))
	for i, name := range names {
		items := make([]opts.LineData, len(data))
		used := false
		for t, row := range data {
			if i < len(row) {
				items[t].Value = row[i]
				used = used || row[i] != 0
			}
		}
		if !used {
			continue
		}
		s := charts.SingleSeries{
			Name: name,
			Data: items,
			Type: types.ChartLine,
		}
		s.InitSeriesDefaultOpts(line.BaseConfiguration)
		series = append(series, s)
	}
	line.MultiSeries = series
}

// category 节点分类
func category(stateType string) int {
	if stateType == simulation.StateDriveTrain {
		return 2
	}
	if strings.Contains(stateType, "battery") || strings.Contains(stateType, "tank") {
		return 1
	}
	return 0
}

// component 端点 "id.role" 的元件标识
func component(endpoint string) string {
	if i := strings.LastIndexByte(endpoint, '.'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}
