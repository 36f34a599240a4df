// Package main 提供 gridctl 命令行工具
//
// gridctl 按配置文件连接实体仓储，在终端中完成表格的搜索、筛选、排序、批量删除和偏好管理。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
