// Package archive 将诊断会话持久化到 BadgerDB
//
// 每次会话的 Report 以 JSON 存储，键为 "session/" + 大端纳秒时间戳 + 会话 ID，
// 因此按键逆序遍历即为按时间从新到旧。存档条目带 TTL，过期后由 Badger 自动清除。
//
// # 使用示例
//
//	store, err := archive.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	_ = store.Save(ctx, report)
//	recent, _ := store.Recent(ctx, 5)
package archive
