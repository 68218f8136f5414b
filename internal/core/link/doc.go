// Package link 提供适配器选择与物理链路状态查询
//
// 适配器选择：
//   - 配置了名称时直接使用该接口
//   - 否则选择与默认网关（jackpal/gateway）同网段的接口
//   - 再否则选择第一个已启用、非回环、非虚拟的 IPv4 接口
//
// 链路状态来源：
//   - sysfs: 读取 /sys/class/net/<if>/{operstate,carrier,speed}
//   - upnp: 查询路由器 IGD 的 WANCommonInterfaceConfig（WAN 侧物理链路）
//   - auto: 优先 sysfs，接口不在 sysfs 中时回退到 upnp
package link
