package main

import (
	"fmt"
	"os"

	"campus-map/algo"
	"campus-map/codec"
	"campus-map/ingest"
	"campus-map/logger"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "campus-map",
		Short: "校园地图导航服务",
		Long:  `校园地图：建筑、节点、通道与覆盖物的管理，模糊搜索，以及按出行方式规划路径。`,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	configPath string

	importCmd = &cobra.Command{
		Use:   "import [dsl file]",
		Short: "把文本格式的地图转换为二进制快照",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	importOut   string
	importPaths string

	dumpCmd = &cobra.Command{
		Use:   "dump [map.bin]",
		Short: "打印二进制地图的内容 (调试用)",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	dumpPaths string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML 配置文件 (默认读取 CAMPUS_CONFIG)")

	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importOut, "out", "o", "data/campus_map.bin", "输出的地图快照")
	importCmd.Flags().StringVar(&importPaths, "paths", "", "输出的路径快照 (为空则不写)")

	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVar(&dumpPaths, "paths", "", "同时打印的路径快照")
}

// runImport 解析文本地图并写出快照
func runImport(cmd *cobra.Command, args []string) error {
	logger.Setup()
	res, err := ingest.ParseFile(args[0])
	if err != nil {
		return err
	}
	if err := codec.SaveMapFile(importOut, res.Map); err != nil {
		return err
	}
	if importPaths != "" {
		if err := codec.SaveSavedPathsFile(importPaths, res.Paths); err != nil {
			return err
		}
	}
	logger.L().Info("map_imported",
		"src", args[0], "out", importOut,
		"nodes", res.Map.NNodes(), "edges", res.Map.NEdges(), "paths", res.Paths.Len())
	return nil
}

// runDump 打印快照内容
func runDump(cmd *cobra.Command, args []string) error {
	m, err := codec.LoadMapFile(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	algo.Dump(w, m, 0)
	if dumpPaths == "" {
		return nil
	}
	paths, err := codec.LoadSavedPathsFile(dumpPaths)
	if err != nil {
		return err
	}
	for _, p := range paths.Paths() {
		algo.DumpPath(w, p, 1)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
